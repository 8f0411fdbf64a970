package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is the document registry. One row per upload, newest
// uploads of the same filename simply add another row.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY, -- UUID
        filename TEXT NOT NULL,
        size_bytes INTEGER NOT NULL,
        chunks_total INTEGER NOT NULL,
        chunks_indexed INTEGER NOT NULL,
        uploaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// RecordUpload appends a registry row for a processed upload.
func (s *SQLiteStore) RecordUpload(filename string, sizeBytes int64, chunksTotal, chunksIndexed int) error {
	stmt, err := s.db.Prepare("INSERT INTO documents (id, filename, size_bytes, chunks_total, chunks_indexed, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(uuid.NewString(), filename, sizeBytes, chunksTotal, chunksIndexed, time.Now())
	if err != nil {
		return fmt.Errorf("failed to execute document insert: %w", err)
	}
	return nil
}

// ListDocuments returns all upload records, newest first.
func (s *SQLiteStore) ListDocuments() ([]Document, error) {
	rows, err := s.db.Query("SELECT id, filename, size_bytes, chunks_total, chunks_indexed, uploaded_at FROM documents ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.SizeBytes, &doc.ChunksTotal, &doc.ChunksIndexed, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
