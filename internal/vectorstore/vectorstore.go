// Package vectorstore holds the vector database boundary and its
// chromem-go implementation.
package vectorstore

import "context"

// Entry is one indexed chunk. The embedding is always computed by the
// caller; no entry exists without one.
type Entry struct {
	ID        string
	Embedding []float32
	Text      string
	Source    string // filename of the owning document
}

// Result is one retrieved chunk. Results are ordered by descending
// similarity to the query embedding.
type Result struct {
	ID         string
	Text       string
	Source     string
	Similarity float32
}

// Store is the interface the pipelines use to talk to the vector
// database.
type Store interface {
	Add(ctx context.Context, entry Entry) error
	Query(ctx context.Context, embedding []float32, topK int) ([]Result, error)
	Count() int
}
