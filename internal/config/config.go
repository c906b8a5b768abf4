package config

import "os"

type Config struct {
	DatabaseURL      string
	Port             string
	JWTSecret        string
	SentimentAPIKey  string
	SentimentBaseURL string
	SentimentModel   string
	LogLevel         string
}

func Load() *Config {
	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "aurawall.db"),
		Port:             getEnv("PORT", "8080"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		SentimentAPIKey:  getEnv("SENTIMENT_API_KEY", ""),
		SentimentBaseURL: getEnv("SENTIMENT_BASE_URL", ""),
		SentimentModel:   getEnv("SENTIMENT_MODEL", "gpt-4o-mini"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
