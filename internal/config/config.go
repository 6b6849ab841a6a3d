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

const DefaultCatalogSourceURL = "https://softwium.com/api/books"

// ErrMissingDSN is returned when DB_DSN is not provided.
var ErrMissingDSN = errors.New("missing required environment variable: DB_DSN")

// Config holds the application configuration.
type Config struct {
	Addr           string
	DatabaseDSN    string
	DBTimeout      time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
	EnableHSTS     bool
	LogLevel       string
	LogFormat      string
	CatalogSource  CatalogSource
}

// CatalogSource configures the upstream catalog client.
type CatalogSource struct {
	URL         string
	Timeout     time.Duration
	MinInterval time.Duration
	UserAgent   string
	MaxBytes    int64
}

// LoadEnvFiles reads .env and .env.local without overriding variables
// already present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	dbTimeout, err := getDuration("DB_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := getDuration("CATALOG_SOURCE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	minInterval, err := getDuration("CATALOG_SOURCE_MIN_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}
	maxBody, err := getInt64("MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}
	sourceMaxBytes, err := getInt64("CATALOG_SOURCE_MAX_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DatabaseDSN:    dsn,
		DBTimeout:      dbTimeout,
		MaxBodyBytes:   maxBody,
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		EnableHSTS:     os.Getenv("ENABLE_HSTS") == "true",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CatalogSource: CatalogSource{
			URL:         getEnv("CATALOG_SOURCE_URL", DefaultCatalogSourceURL),
			Timeout:     sourceTimeout,
			MinInterval: minInterval,
			UserAgent:   getEnv("CATALOG_SOURCE_USER_AGENT", "bookcatalog/1.0"),
			MaxBytes:    sourceMaxBytes,
		},
	}, nil
}

// RedactDSN hides the credentials part of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
