package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIBaseURL is used when STORERATE_API_BASE_URL is unset
const DefaultAPIBaseURL = "http://localhost:3000"

// Config holds all configuration for the client and the dev API
type Config struct {
	// API Configuration
	API APIConfig

	// Session persistence
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig

	// Local stand-in API server
	DevAPI DevAPIConfig
}

// APIConfig holds the external rating API settings
type APIConfig struct {
	BaseURL string
}

// SessionConfig selects where the session token and identity are persisted
type SessionConfig struct {
	Backend   string // file, keyring, sqlite, memory
	Path      string // file or sqlite path; empty = default under ~/.config/storerate
	Namespace string // keyring key prefix; empty = API host
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string // empty = caller default
	Format string // json, console
}

// DevAPIConfig holds the local stand-in API configuration
type DevAPIConfig struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string // empty = generated at startup
	TokenTTL      time.Duration
	AllowOrigins  []string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	baseURL := strings.TrimRight(getEnv("STORERATE_API_BASE_URL", DefaultAPIBaseURL), "/")

	backend := strings.ToLower(getEnv("STORERATE_SESSION_BACKEND", "file"))
	switch backend {
	case "file", "keyring", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("invalid STORERATE_SESSION_BACKEND %q (want file, keyring, sqlite or memory)", backend)
	}

	ttl, err := time.ParseDuration(getEnv("DEVAPI_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVAPI_TOKEN_TTL: %w", err)
	}

	return &Config{
		API: APIConfig{
			BaseURL: baseURL,
		},
		Session: SessionConfig{
			Backend:   backend,
			Path:      os.Getenv("STORERATE_SESSION_PATH"),
			Namespace: os.Getenv("STORERATE_SESSION_NAMESPACE"),
		},
		Logging: LoggingConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		DevAPI: DevAPIConfig{
			Addr:          getEnv("DEVAPI_ADDR", ":3000"),
			DatabaseURL:   getEnv("DATABASE_URL", "storerate-dev.sqlite"),
			JWTSecret:     os.Getenv("DEVAPI_JWT_SECRET"),
			TokenTTL:      ttl,
			AllowOrigins:  splitList(getEnv("DEVAPI_CORS_ORIGINS", "http://localhost:5173")),
			AdminEmail:    getEnv("DEVAPI_ADMIN_EMAIL", "admin@storerate.local"),
			AdminPassword: getEnv("DEVAPI_ADMIN_PASSWORD", "Admin@1234"),
			AdminName:     getEnv("DEVAPI_ADMIN_NAME", "Platform Administrator Account"),
		},
	}, nil
}

// LevelOr returns the configured log level, or def when none was set
func (l LoggingConfig) LevelOr(def string) string {
	if l.Level == "" {
		return def
	}
	return l.Level
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
