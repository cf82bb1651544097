package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	UseMockAPI     bool
	TokenFile      string
	LogLevel       string
	LogFormat      string

	// Mock server settings (only used by cmd/mockserver and tests).
	MockPort      string
	MockJWTSecret string
	MockJWTExpiry time.Duration
	BcryptCost    int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8090/api"),
		RequestTimeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 8)) * time.Second,
		UseMockAPI:     getEnvBool("USE_MOCK_API", false),
		TokenFile:      getEnv("TOKEN_FILE", defaultTokenFile()),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		MockPort:       getEnv("MOCK_PORT", "8090"),
		MockJWTSecret:  getEnv("MOCK_JWT_SECRET", "change-this-to-a-secure-random-string"),
		MockJWTExpiry:  time.Duration(getEnvInt("MOCK_JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:     getEnvInt("BCRYPT_COST", 6),
	}
}

// defaultTokenFile places the persisted session under the user's home
// directory, falling back to the working directory when HOME is unset.
func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qldt-session.json"
	}
	return filepath.Join(home, ".qldt", "session.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
