package vectorstore

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// DefaultCollection is the collection holding all PDF chunks.
const DefaultCollection = "pdf_chunks"

// ChromemStore implements Store on top of chromem-go, an embeddable
// Chroma-style vector database with gob-file persistence.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

var _ Store = (*ChromemStore)(nil)

// NewChromemStore opens (or creates) a persistent vector database at
// path. An empty path opens an in-memory database, which tests use.
func NewChromemStore(path, collectionName string) (*ChromemStore, error) {
	if collectionName == "" {
		collectionName = DefaultCollection
	}

	var db *chromem.DB
	var err error
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database at %s: %w", path, err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, rejectLocalEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collectionName, err)
	}

	return &ChromemStore{db: db, collection: collection}, nil
}

// rejectLocalEmbedding keeps chromem from silently falling back to its
// built-in embedding providers. Every entry carries an embedding
// computed by the external embedding service.
func rejectLocalEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("no local embedding function configured; embeddings must be supplied by the caller")
}

// Add upserts one entry. Re-adding an ID replaces the previous entry,
// which is what makes re-uploads of the same filename deterministic.
func (s *ChromemStore) Add(ctx context.Context, entry Entry) error {
	if len(entry.Embedding) == 0 {
		return fmt.Errorf("entry %s has no embedding", entry.ID)
	}

	doc := chromem.Document{
		ID:        entry.ID,
		Embedding: entry.Embedding,
		Content:   entry.Text,
		Metadata: map[string]string{
			"text":   entry.Text,
			"source": entry.Source,
		},
	}
	if err := s.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to add entry %s: %w", entry.ID, err)
	}
	return nil
}

// Query returns up to topK entries nearest to the given embedding, in
// relevance order.
func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int) ([]Result, error) {
	// chromem rejects queries asking for more results than there are
	// documents, so clamp to the collection size.
	if count := s.collection.Count(); count < topK {
		topK = count
	}
	if topK <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			ID:         r.ID,
			Text:       r.Metadata["text"],
			Source:     r.Metadata["source"],
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Count returns the number of entries in the collection.
func (s *ChromemStore) Count() int {
	return s.collection.Count()
}
