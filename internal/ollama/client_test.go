package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, EmbedModel: "test-embed"})

	embedding, err := client.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	assert.Equal(t, "test-embed", gotBody["model"])
	assert.Equal(t, "hello world", gotBody["prompt"])
}

func TestEmbedErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
		},
		{
			name: "empty embedding",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{}})
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(Config{BaseURL: server.URL})
			_, err := client.Embed(context.Background(), "text")
			assert.Error(t, err)
		})
	}
}

func TestEmbedTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on.

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Embed(context.Background(), "text")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"response": "the answer", "done": true})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, GenerateModel: "test-llm"})

	response, err := client.Generate(context.Background(), "Context: ...\n\nUser Query: q\n\nAnswer:")
	require.NoError(t, err)
	assert.Equal(t, "the answer", response)
	assert.Equal(t, "test-llm", gotBody["model"])
	assert.Equal(t, false, gotBody["stream"])
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestPull(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pull", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, client.Pull(context.Background(), "nomic-embed-text"))
	assert.Equal(t, "nomic-embed-text", gotBody["model"])
}

// A non-200 pull status is tolerated; only a transport failure is
// reported to the caller.
func TestPullFailureModes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusInternalServerError)
	}))
	client := NewClient(Config{BaseURL: server.URL})
	assert.NoError(t, client.Pull(context.Background(), "bogus-model"))

	server.Close()
	assert.Error(t, client.Pull(context.Background(), "bogus-model"))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, DefaultEmbedModel, client.EmbedModel())
	assert.Equal(t, DefaultGenerateModel, client.GenerateModel())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
