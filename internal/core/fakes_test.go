package core

import (
	"context"
	"errors"

	"pdfrag.dev/chatbot-service/internal/vectorstore"
)

// fakeEmbedder returns a deterministic vector per text and can be told
// to fail for specific inputs or for everything.
type fakeEmbedder struct {
	failOn  map[string]bool
	failAll bool
	calls   []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.failAll || f.failOn[text] {
		return nil, errors.New("embedding service unavailable")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeIndex struct {
	entries  []vectorstore.Entry
	results  []vectorstore.Result
	queries  int
	addErr   error
	queryErr error
}

func (f *fakeIndex) Add(ctx context.Context, entry vectorstore.Entry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, embedding []float32, topK int) ([]vectorstore.Result, error) {
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if topK < len(f.results) {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func (f *fakeIndex) Count() int { return len(f.entries) }

func (f *fakeIndex) entryIDs() []string {
	ids := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		ids = append(ids, e.ID)
	}
	return ids
}

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type uploadRecord struct {
	filename      string
	sizeBytes     int64
	chunksTotal   int
	chunksIndexed int
}

type fakeUploadLog struct {
	records []uploadRecord
}

func (f *fakeUploadLog) RecordUpload(filename string, sizeBytes int64, chunksTotal, chunksIndexed int) error {
	f.records = append(f.records, uploadRecord{filename, sizeBytes, chunksTotal, chunksIndexed})
	return nil
}
