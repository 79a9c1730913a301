package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth: optional. When empty the API is open, which is the normal
	// setup for a single-user local editor.
	APIKey string

	// Editor defaults
	DefaultSpacingPixels int

	// Upload limits
	MaxUploadBytes int64

	// Export worker pool
	WorkerCount            int
	MaxQueueSize           int
	MaxConcurrentTranscode int

	// Export job state
	JobTTL time.Duration

	// Remote image retrieval
	FetchTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PAGEFORGE_API_KEY"),

		DefaultSpacingPixels: envInt("DEFAULT_SPACING_PX", 16),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		WorkerCount:            envInt("WORKER_COUNT", 2),
		MaxQueueSize:           envInt("MAX_QUEUE_SIZE", 20),
		MaxConcurrentTranscode: envInt("MAX_CONCURRENT_TRANSCODE", 4),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		FetchTimeout: envDuration("FETCH_TIMEOUT", 30*time.Second),
	}

	if cfg.DefaultSpacingPixels < 0 {
		cfg.DefaultSpacingPixels = 16
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 20
	}
	if cfg.MaxConcurrentTranscode <= 0 {
		cfg.MaxConcurrentTranscode = 4
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
