package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Media storage
	MediaDir     string
	S3BucketName string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig builds a Config from environment variables, falling back
// to secret files for sensitive values in non-CI environments.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ServerHost:    getEnv("SERVER_HOST", "0.0.0.0"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        envOrSecret("DB_USER", "db_user"),
		DBPassword:    envOrSecret("DB_PASSWORD", "db_password"),
		DBName:        getEnv("DB_NAME", "platefeed"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     envOrSecret("JWT_SECRET", "jwt_secret"),
		MediaDir:      getEnv("MEDIA_DIR", "media"),
		S3BucketName:  getEnv("S3_BUCKET_NAME", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", db, err)
		}
		cfg.RedisDB = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ValidateConfig checks that the values a running server cannot do
// without are present.
func ValidateConfig(cfg *Config) error {
	var errs []string
	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET (or the jwt_secret secret) is required")
	}
	if cfg.DBUser == "" {
		errs = append(errs, "DB_USER (or the db_user secret) is required")
	}
	if IsProduction() && cfg.DBPassword == "" {
		errs = append(errs, "DB_PASSWORD (or the db_password secret) is required in production")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envOrSecret prefers the environment variable, then the secret file.
func envOrSecret(envKey, secretName string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
