package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pdfrag.dev/chatbot-service/internal/vectorstore"
)

const (
	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 3

	// NoContextResponse is returned when retrieval finds nothing; the
	// generation service is never called in that case.
	NoContextResponse = "No relevant information found in the documents."

	promptTemplate = "Context: %s\n\nUser Query: %s\n\nAnswer:"
)

// Generator produces text for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Citation points back at the document a retrieved chunk came from.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Answer is the response to one query.
type Answer struct {
	Response      string     `json:"response"`
	CitationLinks []Citation `json:"citation_links"`
}

// RAGService runs the read path: embed query, retrieve nearest chunks,
// assemble the prompt and call the generation service.
type RAGService struct {
	embedder  Embedder
	generator Generator
	index     vectorstore.Store
	baseURL   string
	topK      int
}

func NewRAGService(embedder Embedder, generator Generator, index vectorstore.Store, baseURL string, topK int) *RAGService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RAGService{
		embedder:  embedder,
		generator: generator,
		index:     index,
		baseURL:   baseURL,
		topK:      topK,
	}
}

// Retrieve returns the topK most relevant chunks and one citation per
// chunk, index-for-index in the store's relevance order. A failed
// query embedding yields empty results, not an error: the caller sees
// the same "nothing found" outcome as an empty index.
func (s *RAGService) Retrieve(ctx context.Context, query string) ([]string, []Citation, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.Printf("Failed to embed query: %v. Returning no results.", err)
		return nil, nil, nil
	}

	results, err := s.index.Query(ctx, embedding, s.topK)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query index: %w", err)
	}

	chunks := make([]string, 0, len(results))
	citations := make([]Citation, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Text)
		citations = append(citations, Citation{
			URL:   s.baseURL + "/pdf/" + r.Source,
			Title: r.Source,
		})
	}
	return chunks, citations, nil
}

// Answer runs retrieval and, when any context was found, asks the
// generation service with the retrieved chunks joined into a context
// block. The model output is returned verbatim.
func (s *RAGService) Answer(ctx context.Context, query string) (*Answer, error) {
	chunks, citations, err := s.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return &Answer{Response: NoContextResponse, CitationLinks: []Citation{}}, nil
	}

	contextBlock := strings.Join(chunks, "\n\n")
	prompt := fmt.Sprintf(promptTemplate, contextBlock, query)

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &Answer{Response: response, CitationLinks: citations}, nil
}
