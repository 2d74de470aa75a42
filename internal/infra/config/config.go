package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	OllamaURL       string
	EmbeddingModel  string
	GenerationModel string
	EmbeddingDim    int
	OllamaTimeout   int

	SearchTopK      int
	AnswerMaxTokens int
	EmbedCacheSize  int

	IngestParallelism int
	IngestRatePerSec  float64
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		DBHost:     getEnv("DB_HOST", "finrag-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finrag_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "finrag_password"),
		DBName:     getEnv("DB_NAME", "finrag_db"),

		OllamaURL:       getEnv("OLLAMA_URL", "http://ollama:11434"),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "embeddinggemma"),
		GenerationModel: getEnv("GENERATION_MODEL", "gemma3:4b"),
		EmbeddingDim:    getEnvInt("EMBEDDING_DIM", 768),
		OllamaTimeout:   getEnvInt("OLLAMA_TIMEOUT_SECONDS", 120),

		SearchTopK:      getEnvInt("SEARCH_TOP_K", 5),
		AnswerMaxTokens: getEnvInt("ANSWER_MAX_TOKENS", 768),
		EmbedCacheSize:  getEnvInt("EMBED_CACHE_SIZE", 512),

		IngestParallelism: getEnvInt("INGEST_PARALLELISM", 4),
		IngestRatePerSec:  getEnvFloat("INGEST_RATE_PER_SEC", 8),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
