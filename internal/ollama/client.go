// Package ollama is a client for the Ollama HTTP API, covering the
// three endpoints this service consumes: /api/embeddings,
// /api/generate and /api/pull.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	DefaultBaseURL       = "http://localhost:11434"
	DefaultEmbedModel    = "nomic-embed-text"
	DefaultGenerateModel = "llama3.2"

	DefaultEmbedTimeout = 30 * time.Second
	// Local LLM inference can take minutes. Callers must not wrap
	// Generate in a tighter deadline that would cancel a legitimate
	// slow response.
	DefaultGenerateTimeout = 900 * time.Second
)

// Config holds configuration for the Ollama client.
type Config struct {
	BaseURL         string
	EmbedModel      string
	GenerateModel   string
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
}

// Client talks to a single Ollama instance. It is safe for concurrent
// use; each call runs on its own request.
type Client struct {
	embedClient *http.Client
	genClient   *http.Client // long timeout, also used for model pulls

	baseURL       string
	embedModel    string
	generateModel string
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type pullRequest struct {
	Model string `json:"model"`
}

// NewClient creates a new Ollama client, filling unset config fields
// with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.GenerateModel == "" {
		cfg.GenerateModel = DefaultGenerateModel
	}
	if cfg.EmbedTimeout == 0 {
		cfg.EmbedTimeout = DefaultEmbedTimeout
	}
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = DefaultGenerateTimeout
	}

	return &Client{
		embedClient:   &http.Client{Timeout: cfg.EmbedTimeout},
		genClient:     &http.Client{Timeout: cfg.GenerateTimeout},
		baseURL:       cfg.BaseURL,
		embedModel:    cfg.EmbedModel,
		generateModel: cfg.GenerateModel,
	}
}

// Embed generates a vector embedding for the given text. Callers must
// treat an error as "skip this unit of work", never as fatal to the
// surrounding pipeline.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := c.post(ctx, c.embedClient, "/api/embeddings", embedRequest{
		Model:  c.embedModel,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(embedResp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding data received from ollama")
	}

	embedding := make([]float32, len(embedResp.Embedding))
	for i, v := range embedResp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Generate produces a non-streamed completion for the given prompt and
// returns the model output verbatim.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := c.post(ctx, c.genClient, "/api/generate", generateRequest{
		Model:  c.generateModel,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	return genResp.Response, nil
}

// Pull asks Ollama to download the given model. A transport failure is
// returned to the caller; a non-200 status is only logged, since the
// model may already be present or become available later.
func (c *Client) Pull(ctx context.Context, model string) error {
	jsonBody, err := json.Marshal(pullRequest{Model: model})
	if err != nil {
		return fmt.Errorf("failed to marshal pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pull", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.genClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama pull request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Failed to pull model %s: status %d: %s", model, resp.StatusCode, string(body))
	}
	return nil
}

// EmbedModel returns the configured embedding model name.
func (c *Client) EmbedModel() string { return c.embedModel }

// GenerateModel returns the configured generation model name.
func (c *Client) GenerateModel() string { return c.generateModel }

func (c *Client) post(ctx context.Context, client *http.Client, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to ollama failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
