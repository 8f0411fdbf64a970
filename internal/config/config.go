package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OllamaBaseURL   string
	EmbedModel      string
	LLMModel        string
	HTTPPort        string
	PublicBaseURL   string
	PDFStorageDir   string
	VectorDBDir     string
	DatabaseURL     string
	LogLevel        string
	ChunkSize       int
	TopK            int
	GenerateTimeout time.Duration
}

// Load reads configuration from the environment, with a .env file as
// optional source. Every variable has a working local default.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbedModel:      getEnv("OLLAMA_EMBED_MODEL_NAME", "nomic-embed-text"),
		LLMModel:        getEnv("OLLAMA_LLM_MODEL_NAME", "llama3.2"),
		HTTPPort:        getEnv("HTTP_PORT", "8000"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", ""),
		PDFStorageDir:   getEnv("PDF_STORAGE_DIR", "./pdf_storage"),
		VectorDBDir:     getEnv("VECTOR_DB_DIR", "./vector_db"),
		DatabaseURL:     getEnv("DATABASE_URL", "documents.db"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		ChunkSize:       getEnvAsInt("CHUNK_SIZE", 500),
		TopK:            getEnvAsInt("TOP_K", 3),
		GenerateTimeout: time.Duration(getEnvAsInt("GENERATE_TIMEOUT_SECONDS", 900)) * time.Second,
	}

	// Download and citation links point back at this service.
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.HTTPPort
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
