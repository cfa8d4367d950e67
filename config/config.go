package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// GDO credentials (required)
	LoginID  string
	Password string

	// Browser configuration
	Headless bool
	Timeout  time.Duration

	// Debug configuration
	Debug    bool
	DebugDir string

	// Output configuration
	OutputDir string
	DataDir   string

	// GDO site URLs
	BaseURL      string
	ScoreListURL string // fmt template, %d is the listing page number

	// Retry and pacing configuration
	MaxRetries           int
	RetryWaitMin         time.Duration
	RetryWaitMax         time.Duration
	RequestInterval      time.Duration
	MaxConsecutiveErrors int

	// Environment
	Environment string
}

// Option applies a single named override to a Config
type Option func(*Config)

// WithOutputDir overrides the output directory
func WithOutputDir(dir string) Option {
	return func(c *Config) { c.OutputDir = dir }
}

// WithHeadless overrides headless mode
func WithHeadless(headless bool) Option {
	return func(c *Config) { c.Headless = headless }
}

// WithDebug enables debug mode
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

// With returns a copy of the config with the given overrides applied
func (c Config) With(opts ...Option) Config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	timeoutMS, _ := strconv.Atoi(getEnv("GDO_TIMEOUT_MS", "30000"))
	maxRetries, _ := strconv.Atoi(getEnv("GDO_MAX_RETRIES", "3"))
	retryMinMS, _ := strconv.Atoi(getEnv("GDO_RETRY_WAIT_MIN_MS", "1000"))
	retryMaxMS, _ := strconv.Atoi(getEnv("GDO_RETRY_WAIT_MAX_MS", "5000"))
	intervalMS, _ := strconv.Atoi(getEnv("GDO_REQUEST_INTERVAL_MS", "1000"))
	maxErrors, _ := strconv.Atoi(getEnv("GDO_MAX_CONSECUTIVE_ERRORS", "5"))

	return Config{
		LoginID:              os.Getenv("GDO_LOGIN_ID"),
		Password:             os.Getenv("GDO_PASSWORD"),
		Headless:             getEnv("GDO_HEADLESS", "true") == "true",
		Timeout:              time.Duration(timeoutMS) * time.Millisecond,
		Debug:                getEnv("GDO_DEBUG", "false") == "true",
		DebugDir:             getEnv("GDO_DEBUG_DIR", "debug"),
		OutputDir:            getEnv("GDO_OUTPUT_DIR", "output"),
		DataDir:              getEnv("GDO_DATA_DIR", "data"),
		BaseURL:              getEnv("GDO_BASE_URL", "https://score.golfdigest.co.jp/"),
		ScoreListURL:         getEnv("GDO_SCORE_LIST_URL", "https://score.golfdigest.co.jp/score/list?mode=0&page=%d&gc_id="),
		MaxRetries:           maxRetries,
		RetryWaitMin:         time.Duration(retryMinMS) * time.Millisecond,
		RetryWaitMax:         time.Duration(retryMaxMS) * time.Millisecond,
		RequestInterval:      time.Duration(intervalMS) * time.Millisecond,
		MaxConsecutiveErrors: maxErrors,
		Environment:          getEnv("GDO_ENVIRONMENT", "development"),
	}
}

// Validate checks that the required credentials are present
func (c *Config) Validate() error {
	if c.LoginID == "" {
		return fmt.Errorf("GDO_LOGIN_ID is required")
	}
	if c.Password == "" {
		return fmt.Errorf("GDO_PASSWORD is required")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("GDO_MAX_RETRIES must be at least 1")
	}
	if c.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("GDO_MAX_CONSECUTIVE_ERRORS must be at least 1")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
