package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"pdfrag.dev/chatbot-service/internal/core"
	"pdfrag.dev/chatbot-service/internal/store"
)

const maxUploadBytes = 50 << 20 // 50 MiB

type APIHandler struct {
	ingestService *core.IngestService
	ragService    *core.RAGService
	registry      *store.SQLiteStore
	storageDir    string
}

func NewAPIHandler(is *core.IngestService, rs *core.RAGService, registry *store.SQLiteStore, storageDir string) *APIHandler {
	return &APIHandler{
		ingestService: is,
		ragService:    rs,
		registry:      registry,
		storageDir:    storageDir,
	}
}

type UploadResponse struct {
	Message      string `json:"message"`
	DownloadLink string `json:"download_link"`
}

func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A 'file' form field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading upload %s: %v", header.Filename, err)
		http.Error(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	result, err := h.ingestService.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		log.Printf("Error ingesting %s: %v", header.Filename, err)
		http.Error(w, "Failed to process PDF", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		Message: fmt.Sprintf("Processed %d of %d chunks from %s",
			result.ChunksIndexed, result.ChunksTotal, result.Filename),
		DownloadLink: result.DownloadLink,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) ServePDFHandler(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(chi.URLParam(r, "filename")) // No path escapes out of the storage dir.
	path := filepath.Join(h.storageDir, filename)

	if _, err := os.Stat(path); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "A prompt is required", http.StatusBadRequest)
		return
	}

	answer, err := h.ragService.Answer(r.Context(), req.Prompt)
	if err != nil {
		log.Printf("Error answering query: %v", err)
		http.Error(w, "Failed to generate response", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (h *APIHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.registry.ListDocuments()
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
