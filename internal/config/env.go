package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend names accepted in the environment.
const (
	SourceDir = "dir"
	SourceS3  = "s3"

	StorePgvector = "pgvector"
	StoreBadger   = "badger"

	EmbedGemini = "gemini"
	EmbedOpenAI = "openai"
)

type Config struct {
	Port     string
	LogLevel string

	DocumentSource string
	DocumentsDir   string
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string
	S3Prefix       string

	VectorStore string
	DatabaseURL string
	BadgerPath  string

	EmbedProvider string
	AIAPIKey      string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	EmbedModel    string
	EmbedDim      int

	ChunkStrategy string
	ChunkSize     int
	ChunkOverlap  int
	BatchSize     int

	JWTSecret   string
	CORSOrigins []string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DocumentSource: getEnv("DOCUMENT_SOURCE", SourceDir),
		DocumentsDir:   getEnv("DOCUMENTS_DIR", "./documents"),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", ""),
		S3Prefix:       getEnv("S3_PREFIX", ""),

		VectorStore: getEnv("VECTOR_STORE", StorePgvector),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		BadgerPath:  getEnv("BADGER_PATH", "./data/vectors"),

		EmbedProvider: getEnv("EMBED_PROVIDER", EmbedGemini),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:      getEnvInt("EMBED_DIM", 0),

		ChunkStrategy: getEnv("CHUNK_STRATEGY", "character"),
		ChunkSize:     getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 200),
		BatchSize:     getEnvInt("BATCH_SIZE", 100),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	switch c.DocumentSource {
	case SourceDir:
		if c.DocumentsDir == "" {
			return fmt.Errorf("DOCUMENTS_DIR not set")
		}
	case SourceS3:
		if c.BucketName == "" {
			return fmt.Errorf("BUCKET_NAME not set")
		}
	default:
		return fmt.Errorf("unknown DOCUMENT_SOURCE %q", c.DocumentSource)
	}

	switch c.VectorStore {
	case StorePgvector:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	case StoreBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH not set")
		}
	default:
		return fmt.Errorf("unknown VECTOR_STORE %q", c.VectorStore)
	}

	switch c.EmbedProvider {
	case EmbedGemini:
		if c.AIAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	case EmbedOpenAI:
		if c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_BASE_URL not set")
		}
	default:
		return fmt.Errorf("unknown EMBED_PROVIDER %q", c.EmbedProvider)
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE)")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive")
	}
	return nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env value is not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
