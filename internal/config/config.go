package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabaseURL     string
	DatabasePath    string
	SessionDuration time.Duration
	StaticFilesPath string
	TemplatesPath   string
	MigrationsPath  string

	// External cocktail catalog
	CocktailAPIBaseURL string
	CocktailAPITimeout time.Duration

	// Optional Redis-backed scoreboard cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CSRF token secret (HMAC key)
	CSRFSecret string

	// Password reset email (Amazon SES); disabled when SESFromEmail is empty
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	// Google sign-in; disabled when GoogleClientID is empty
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./cocktailclash.db"),
		SessionDuration: getEnvDuration("SESSION_DURATION", 24*time.Hour),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),

		CocktailAPIBaseURL: getEnv("COCKTAIL_API_URL", "https://www.thecocktaildb.com/api/json/v1/1"),
		CocktailAPITimeout: getEnvDuration("COCKTAIL_API_TIMEOUT", 5*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CSRFSecret: getEnv("CSRF_SECRET", "change-me-in-production"),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "CocktailClash"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable (e.g. "48h", "30s")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvInt reads an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
