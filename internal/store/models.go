package store

import "time"

// Document is the registry record for one upload. The PDF bytes live
// on disk and the chunk embeddings in the vector store; this row is
// bookkeeping only.
type Document struct {
	ID            string    `json:"id"` // UUID
	Filename      string    `json:"filename"`
	SizeBytes     int64     `json:"size_bytes"`
	ChunksTotal   int       `json:"chunks_total"`   // chunks produced by the chunker
	ChunksIndexed int       `json:"chunks_indexed"` // chunks that actually reached the index
	UploadedAt    time.Time `json:"uploaded_at"`
}
