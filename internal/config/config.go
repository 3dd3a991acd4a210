package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultModel is the Gemini model used for cover recognition
	DefaultModel = "gemini-2.5-flash"
	// DefaultModelTimeout bounds a single call to the model
	DefaultModelTimeout = 30 * time.Second
	// DefaultMaxUploadBytes is the request body cap for uploaded covers (10MB)
	DefaultMaxUploadBytes int64 = 10 << 20

	BackendGenAI = "genai"
	BackendADK   = "adk"
)

// ErrMissingAPIKey is returned by Load when GEMINI_API_KEY is not set.
// The server must refuse to start in that case.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config holds everything read from the environment at startup
type Config struct {
	Env              string
	Port             string
	GeminiAPIKey     string
	Model            string
	ModelBackend     string
	ModelTimeout     time.Duration
	ModelTemperature float32
	AllowedOrigins   []string
	MaxUploadBytes   int64
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadDotEnv loads .env.local and .env into the process environment if they exist.
// Variables already set in the environment win.
func LoadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			godotenv.Load(name)
		}
	}
}

// Load builds a Config from the process environment
func Load() (*Config, error) {
	cfg := &Config{
		Env:          os.Getenv("ENV"),
		Port:         getEnv("PORT", "8080"),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:        getEnv("GEMINI_MODEL", DefaultModel),
		ModelBackend: strings.ToLower(getEnv("MODEL_BACKEND", BackendGenAI)),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch cfg.ModelBackend {
	case BackendGenAI, BackendADK:
	default:
		return nil, fmt.Errorf("invalid MODEL_BACKEND %q (want %q or %q)", cfg.ModelBackend, BackendGenAI, BackendADK)
	}

	timeout, err := time.ParseDuration(getEnv("MODEL_TIMEOUT", DefaultModelTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid MODEL_TIMEOUT: must be positive, got %s", timeout)
	}
	cfg.ModelTimeout = timeout

	temperature, err := strconv.ParseFloat(getEnv("MODEL_TEMPERATURE", "0.2"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_TEMPERATURE: %w", err)
	}
	cfg.ModelTemperature = float32(temperature)

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", strconv.FormatInt(DefaultMaxUploadBytes, 10)), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}
	cfg.MaxUploadBytes = maxUpload

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
