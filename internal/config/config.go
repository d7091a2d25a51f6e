package config

import (
	"os"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort string

	SessionSecret string
	GinMode       string

	// SiteURL is the public base URL embedded in invite links.
	SiteURL string

	// SecretPassphrase seals the credential vault. Server-only, never
	// returned to any client.
	SecretPassphrase string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	OpenAIAPIKey string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "onboarding"),
		DBPassword: getEnv("DB_PASSWORD", "onboarding"),
		DBName:     getEnv("DB_NAME", "onboarding"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		SiteURL: getEnv("SITE_URL", "http://localhost:3000"),

		SecretPassphrase: getEnv("SECRET_PASSPHRASE", ""),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "company-assets"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
