package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Annany2002/domain-ledger/internal/logger"
	"github.com/joho/godotenv"
)

var (
	customLog = logger.NewLogger()
)

// Config holds application configuration values
type Config struct {
	ServerPort     string
	JWTSecret      string
	JWTExpiration  time.Duration
	DatabaseDir    string
	DatabaseFile   string
	UploadDir      string
	MaxUploadBytes int64
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	TaskRetention  time.Duration
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	port := getEnv("SERVER_PORT", getEnv("PORT", "8080"))
	jwtSecret := getEnv("JWT_SECRET", "")

	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}

	cfg := &Config{
		ServerPort:     strings.TrimPrefix(port, ":"),
		JWTSecret:      jwtSecret,
		JWTExpiration:  time.Hour * time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)),
		DatabaseDir:    getEnv("DATABASE_DIRECTORY", "data"),
		DatabaseFile:   getEnv("DATABASE_FILE", "domain_ledger.db"),
		UploadDir:      getEnv("UPLOAD_DIRECTORY", "upload"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 1024)) << 20,
		CORSOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitRPS:   float64(getEnvInt("RATE_LIMIT_RPS", 5)),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		TaskRetention:  time.Hour * time.Duration(getEnvInt("TASK_RETENTION_HOURS", 24)),
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, JWT Exp: %v", cfg.ServerPort, cfg.JWTExpiration)
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getEnvInt reads a positive integer, falling back on missing or invalid values.
func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		customLog.Warnf("Invalid %s '%s'. Using default %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
