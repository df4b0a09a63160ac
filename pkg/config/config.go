package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Operator login: bcrypt hash of the single operator password
	OperatorPasswordHash string

	// Postgres (tasks/habits)
	DatabaseURL string

	// Slack read credentials (kept separate from write-side secrets)
	SlackToken string

	// Embedding provider
	EmbeddingProvider string // "openai", "ollama" or "auto"
	OpenAIAPIKey      string
	OpenAIModel       string
	OllamaBaseURL     string
	OllamaModel       string

	// Chroma vector store
	ChromaURL      string
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string

	// Sync engine
	StateDir          string
	PageDelay         time.Duration // inter-page pacing for channel listing
	ThreadConcurrency int

	// Field-level encryption key (64 hex chars); empty disables the encrypted variant
	EncryptionKey string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	pageDelay := 1200 * time.Millisecond
	if d := os.Getenv("SYNC_PAGE_DELAY"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			pageDelay = parsed
		}
	}

	accessExpiry := 24 * time.Hour
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	threadConcurrency := 5
	if c := os.Getenv("SYNC_THREAD_CONCURRENCY"); c != "" {
		if parsed, err := strconv.Atoi(c); err == nil && parsed > 0 {
			threadConcurrency = parsed
		}
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:      accessExpiry,
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		DatabaseURL:          getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=workmind port=5432 sslmode=disable"),
		SlackToken:           getEnv("SLACK_TOKEN", ""),
		EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "auto"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:          getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		ChromaURL:            getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaAPIKey:         getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:         getEnv("CHROMA_TENANT", ""),
		ChromaDatabase:       getEnv("CHROMA_DATABASE", ""),
		StateDir:             getEnv("SYNC_STATE_DIR", "./data"),
		PageDelay:            pageDelay,
		ThreadConcurrency:    threadConcurrency,
		EncryptionKey:        getEnv("MESSAGE_ENCRYPTION_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
