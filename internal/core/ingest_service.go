package core

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pdfrag.dev/chatbot-service/internal/chunker"
	"pdfrag.dev/chatbot-service/internal/vectorstore"
)

// Embedder produces a fixed-length vector for a piece of text. An
// error means "skip this unit of work", never "abort the pipeline".
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TextExtractor turns a stored file into raw text.
type TextExtractor func(path string) (string, error)

// UploadLog records processed uploads. Failures to record are logged,
// not surfaced; the registry is bookkeeping, not the index.
type UploadLog interface {
	RecordUpload(filename string, sizeBytes int64, chunksTotal, chunksIndexed int) error
}

// IngestConfig holds the ingestion pipeline settings.
type IngestConfig struct {
	StorageDir string // directory where uploaded PDFs are persisted
	BaseURL    string // public base URL used to build download links
	ChunkSize  int    // words per chunk; defaults to chunker.DefaultChunkSize
}

// IngestService runs the write path: persist file, extract text,
// chunk, embed, index.
type IngestService struct {
	embedder Embedder
	index    vectorstore.Store
	uploads  UploadLog
	extract  TextExtractor

	storageDir string
	baseURL    string
	chunkSize  int
}

// IngestResult summarizes one processed upload. ChunksTotal counts the
// chunks the chunker produced; ChunksIndexed counts those that
// actually reached the index (chunks whose embedding failed are
// dropped).
type IngestResult struct {
	Filename      string
	ChunksTotal   int
	ChunksIndexed int
	DownloadLink  string
}

func NewIngestService(embedder Embedder, index vectorstore.Store, uploads UploadLog, extract TextExtractor, cfg IngestConfig) *IngestService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultChunkSize
	}
	return &IngestService{
		embedder:   embedder,
		index:      index,
		uploads:    uploads,
		extract:    extract,
		storageDir: cfg.StorageDir,
		baseURL:    cfg.BaseURL,
		chunkSize:  cfg.ChunkSize,
	}
}

// Ingest persists the uploaded bytes under filename (overwriting any
// previous upload with the same name), extracts and chunks the text,
// and indexes one entry per successfully embedded chunk. Chunk IDs are
// content-addressed as {filename}-{index}, so re-ingesting a filename
// replaces its entries.
//
// There is no atomicity across the embed+index loop: a failure partway
// leaves the chunks indexed so far in place.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	filename = filepath.Base(filename)
	path := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", filename, err)
	}

	text, err := s.extract(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}

	chunks := chunker.Split(text, s.chunkSize)

	indexed := 0
	for idx, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			log.Printf("Failed to embed chunk %d of %s: %v. Skipping.", idx, filename, err)
			continue
		}

		entry := vectorstore.Entry{
			ID:        fmt.Sprintf("%s-%d", filename, idx),
			Embedding: embedding,
			Text:      chunk,
			Source:    filename,
		}
		if err := s.index.Add(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to index chunk %d of %s: %w", idx, filename, err)
		}
		indexed++
	}

	if s.uploads != nil {
		if err := s.uploads.RecordUpload(filename, int64(len(data)), len(chunks), indexed); err != nil {
			log.Printf("Failed to record upload of %s: %v", filename, err)
		}
	}

	return &IngestResult{
		Filename:      filename,
		ChunksTotal:   len(chunks),
		ChunksIndexed: indexed,
		DownloadLink:  s.baseURL + "/pdf/" + filename,
	}, nil
}
