package config

import (
	"os"

	"github.com/joho/godotenv"

	"technician-marketplace/domain"
)

// Config holds everything the service reads from the environment.
type Config struct {
	ServerPort       string
	DBPath           string
	OpenAIAPIKey     string
	QdrantAddr       string
	QdrantCollection string
	AdminToken       string
}

// Load reads configuration from the environment. A .env.local file is
// honored for local development.
func Load() *Config {
	_ = godotenv.Load(".env.local")

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "technicians.db"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		QdrantAddr:       getEnv("QDRANT_ADDR", "localhost:6334"),
		QdrantCollection: getEnv("QDRANT_COLLECTION_NAME", "technicians"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return &domain.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	if c.AdminToken == "" {
		return &domain.ConfigurationError{Setting: "ADMIN_TOKEN"}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
