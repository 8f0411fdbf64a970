package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdfrag.dev/chatbot-service/internal/api"
	"pdfrag.dev/chatbot-service/internal/config"
	"pdfrag.dev/chatbot-service/internal/core"
	"pdfrag.dev/chatbot-service/internal/extract"
	"pdfrag.dev/chatbot-service/internal/ollama"
	"pdfrag.dev/chatbot-service/internal/store"
	"pdfrag.dev/chatbot-service/internal/vectorstore"
)

func main() {
	cfg := config.Load()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if cfg.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	if err := os.MkdirAll(cfg.PDFStorageDir, 0755); err != nil {
		log.Fatalf("Failed to create PDF storage directory %s: %v", cfg.PDFStorageDir, err)
	}

	// Initialize document registry
	registry, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize document registry: %v", err)
	}
	defer registry.Close()

	// Initialize vector store
	index, err := vectorstore.NewChromemStore(cfg.VectorDBDir, vectorstore.DefaultCollection)
	if err != nil {
		log.Fatalf("Failed to initialize vector store: %v", err)
	}
	log.Printf("Vector store ready with %d indexed chunks.", index.Count())

	// Initialize Ollama client
	ollamaClient := ollama.NewClient(ollama.Config{
		BaseURL:         cfg.OllamaBaseURL,
		EmbedModel:      cfg.EmbedModel,
		GenerateModel:   cfg.LLMModel,
		GenerateTimeout: cfg.GenerateTimeout,
	})

	// Make sure the configured models are available before serving. A
	// transport failure here means Ollama itself is unreachable.
	for _, model := range []string{cfg.EmbedModel, cfg.LLMModel} {
		log.Printf("Pulling model %s...", model)
		if err := ollamaClient.Pull(context.Background(), model); err != nil {
			log.Fatalf("Failed to pull model %s: %v", model, err)
		}
	}

	// Initialize pipelines
	ingestService := core.NewIngestService(ollamaClient, index, registry, extract.Text, core.IngestConfig{
		StorageDir: cfg.PDFStorageDir,
		BaseURL:    cfg.PublicBaseURL,
		ChunkSize:  cfg.ChunkSize,
	})
	ragService := core.NewRAGService(ollamaClient, ollamaClient, index, cfg.PublicBaseURL, cfg.TopK)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(ingestService, ragService, registry, cfg.PDFStorageDir)
	router := api.NewRouter(apiHandler)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Responses must be allowed to outlive a full generation call.
		WriteTimeout: cfg.GenerateTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", srv.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
