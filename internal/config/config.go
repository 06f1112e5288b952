package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dgallion1/docsearch/internal/layout"
	"github.com/dgallion1/docsearch/internal/parser"
	"github.com/dgallion1/docsearch/internal/search"
)

type Config struct {
	Port string `toml:"port"`

	// Auth
	APIKey string `toml:"api_key"`

	// Worker pool
	WorkerCount  int `toml:"worker_count"`
	MaxQueueSize int `toml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// Layout and search
	LinesPerPage  int    `toml:"lines_per_page"`
	CharsPerLine  int    `toml:"chars_per_line"`
	ContextWindow int    `toml:"context_window"`
	SectionRules  string `toml:"section_rules"`

	// Multi-document search
	SearchConcurrency int     `toml:"search_concurrency"`
	SearchRateLimit   float64 `toml:"search_rate_limit"` // requests per second
	SearchRateBurst   int     `toml:"search_rate_burst"`

	// Retention
	DocumentTTL time.Duration `toml:"document_ttl"`
	JobTTL      time.Duration `toml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `toml:"pdf_fallback_pdftotext"`
}

func defaults() Config {
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		LinesPerPage:         50,
		CharsPerLine:         80,
		ContextWindow:        100,
		SectionRules:         "basic",
		SearchConcurrency:    8,
		SearchRateLimit:      10,
		SearchRateBurst:      20,
		DocumentTTL:          24 * time.Hour,
		JobTTL:               1 * time.Hour,
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// DOCSEARCH_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("DOCSEARCH_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCSEARCH_API_KEY", cfg.APIKey)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.LinesPerPage = envInt("LINES_PER_PAGE", cfg.LinesPerPage)
	cfg.CharsPerLine = envInt("CHARS_PER_LINE", cfg.CharsPerLine)
	cfg.ContextWindow = envInt("CONTEXT_WINDOW", cfg.ContextWindow)
	cfg.SectionRules = envOr("SECTION_RULES", cfg.SectionRules)

	cfg.SearchConcurrency = envInt("SEARCH_CONCURRENCY", cfg.SearchConcurrency)
	cfg.SearchRateLimit = envFloat("SEARCH_RATE_LIMIT", cfg.SearchRateLimit)
	cfg.SearchRateBurst = envInt("SEARCH_RATE_BURST", cfg.SearchRateBurst)

	cfg.DocumentTTL = envDuration("DOCUMENT_TTL", cfg.DocumentTTL)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	d := defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = d.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = d.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = d.MaxUploadBytes
	}
	if cfg.LinesPerPage <= 0 {
		cfg.LinesPerPage = d.LinesPerPage
	}
	if cfg.CharsPerLine <= 0 {
		cfg.CharsPerLine = d.CharsPerLine
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = d.ContextWindow
	}
	if cfg.SearchConcurrency <= 0 {
		cfg.SearchConcurrency = d.SearchConcurrency
	}
	if cfg.SearchRateBurst <= 0 {
		cfg.SearchRateBurst = d.SearchRateBurst
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = d.JobTTL
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSEARCH_API_KEY is required")
	}
	if _, err := layout.ParseRules(c.SectionRules); err != nil {
		return fmt.Errorf("SECTION_RULES: %w", err)
	}
	if c.SearchRateLimit < 0 {
		return fmt.Errorf("SEARCH_RATE_LIMIT must not be negative")
	}
	return nil
}

// Layout returns the page synthesis settings. SectionRules must already
// have passed Validate.
func (c Config) Layout() layout.Config {
	rules, _ := layout.ParseRules(c.SectionRules)
	return layout.Config{
		LinesPerPage: c.LinesPerPage,
		CharsPerLine: c.CharsPerLine,
		Rules:        rules,
	}
}

// Search returns the match presentation settings.
func (c Config) Search() search.Config {
	return search.Config{ContextWindow: c.ContextWindow}
}

// Parser returns the extractor options.
func (c Config) Parser() parser.Options {
	return parser.Options{PDFFallback: c.PDFFallbackPdftotext}
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
