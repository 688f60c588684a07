package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
)

// Config holds the application configuration values.
type Config struct {
	ServerHost string
	ServerPort string
	ServerMode string

	StorageDriver    string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabaseURL      string

	LogLevel    string
	CORSOrigins []string

	MaxConcurrentCrawls int
	FetchTimeout        time.Duration
	SitemapTimeout      time.Duration
	MaxRedirects        int
	MaxBodyBytes        int64
	RequestDelay        time.Duration
	UserAgent           string
	ShutdownTimeout     time.Duration
}

// Load reads configuration exclusively from environment variables (optionally .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.ServerHost = getEnv("HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("PORT", "8080")
	cfg.ServerMode = getEnv("GIN_MODE", "debug")

	// Storage
	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory))
	switch cfg.StorageDriver {
	case StorageMemory:
	case StorageMySQL:
		cfg.DatabaseHost = getEnv("DB_HOST", "localhost")
		cfg.DatabasePort = getEnv("DB_PORT", "3306")
		cfg.DatabaseUser = getEnv("DB_USER", "")
		cfg.DatabasePassword = getEnv("DB_PASSWORD", "")
		cfg.DatabaseName = getEnv("DB_NAME", "")
		if cfg.DatabaseUser == "" || cfg.DatabasePassword == "" || cfg.DatabaseName == "" {
			return nil, fmt.Errorf("missing required database env vars")
		}
		// user:pass@tcp(host:port)/dbname?parseTime=true
		cfg.DatabaseURL = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
			cfg.DatabaseUser, cfg.DatabasePassword,
			cfg.DatabaseHost, cfg.DatabasePort,
			cfg.DatabaseName,
		)
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// Logging & CORS
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	if origins := getEnv("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	// Crawling
	var err error
	if cfg.MaxConcurrentCrawls, err = getInt("MAX_CONCURRENT_CRAWLS", 0); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getSeconds("FETCH_TIMEOUT_SECONDS", 10); err != nil {
		return nil, err
	}
	if cfg.SitemapTimeout, err = getSeconds("SITEMAP_TIMEOUT_SECONDS", 5); err != nil {
		return nil, err
	}
	if cfg.MaxRedirects, err = getInt("MAX_REDIRECTS", 5); err != nil {
		return nil, err
	}
	maxBodyMB, err := getInt("MAX_BODY_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.MaxBodyBytes = int64(maxBodyMB) << 20
	delayMS, err := getInt("REQUEST_DELAY_MS", 100)
	if err != nil {
		return nil, err
	}
	cfg.RequestDelay = time.Duration(delayMS) * time.Millisecond
	if cfg.ShutdownTimeout, err = getSeconds("SHUTDOWN_TIMEOUT_SECONDS", 15); err != nil {
		return nil, err
	}

	// User agent
	cfg.UserAgent = getEnv("USER_AGENT", "SiteScope-Bot/1.0")

	return cfg, nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// getEnv returns env var or default.
func getEnv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func getInt(key string, def int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return v, nil
}

func getSeconds(key string, def int) (time.Duration, error) {
	v, err := getInt(key, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}
