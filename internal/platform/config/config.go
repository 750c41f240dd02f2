package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment. FromEnv
// keeps main lean and gives every knob a development default.
type Config struct {
	Addr string

	// OCR engine tuning. The language follows tesseract naming; French
	// documents by default.
	OCRLang    string
	OCRTimeout time.Duration

	// PostgresDSN switches the document store from in-memory to PostgreSQL
	// when set. RedisURL does the same for the duplicate hash index.
	PostgresDSN string
	RedisURL    string

	// TamperPrefixBytes is how much of each file the editor-signature sniff reads.
	TamperPrefixBytes int
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:              envOr("VERIDOC_ADDR", ":8080"),
		OCRLang:           envOr("VERIDOC_OCR_LANG", "fra"),
		OCRTimeout:        envDurationOr("VERIDOC_OCR_TIMEOUT", 15*time.Second),
		PostgresDSN:       os.Getenv("VERIDOC_POSTGRES_DSN"),
		RedisURL:          os.Getenv("VERIDOC_REDIS_URL"),
		TamperPrefixBytes: envIntOr("VERIDOC_TAMPER_PREFIX_BYTES", 4096),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
