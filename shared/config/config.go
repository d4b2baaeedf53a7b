package config

import (
	"fmt"
	"strconv"
	"time"

	"megaverse-client/shared/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	API       APIConfig
	RateLimit RateLimitConfig
	Retry     RetryConfig
	Painter   PainterConfig
	Logging   LoggingConfig
}

type APIConfig struct {
	BaseURL        string
	CandidateID    string
	RequestTimeout time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

type RetryConfig struct {
	MaxRetries  int
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

type PainterConfig struct {
	Concurrency int
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

// Load reads configuration from the environment (optionally seeded from a
// .env file) and validates it. Callers own the returned Config; there is
// no package-level instance.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := &Config{
		API:       loadAPIConfig(),
		RateLimit: loadRateLimitConfig(),
		Retry:     loadRetryConfig(),
		Painter:   loadPainterConfig(),
		Logging:   loadLoggingConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadAPIConfig() APIConfig {
	requestTimeout, _ := strconv.Atoi(utils.GetEnv("REQUEST_TIMEOUT_MS", "5000"))

	return APIConfig{
		BaseURL:        utils.GetEnv("MEGAVERSE_BASE_URL", "https://challenge.crossmint.io/api"),
		CandidateID:    utils.GetEnv("MEGAVERSE_CANDIDATE_ID", ""),
		RequestTimeout: time.Duration(requestTimeout) * time.Millisecond,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, _ := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "2"), 64)
	burstSize, _ := strconv.Atoi(utils.GetEnv("RATE_LIMIT_BURST_SIZE", "1"))

	return RateLimitConfig{
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
	}
}

func loadRetryConfig() RetryConfig {
	maxRetries, _ := strconv.Atoi(utils.GetEnv("MAX_RETRIES", "3"))
	backoffBase, _ := strconv.Atoi(utils.GetEnv("BACKOFF_BASE_MS", "250"))
	backoffCap, _ := strconv.Atoi(utils.GetEnv("BACKOFF_CAP_MS", "4000"))

	return RetryConfig{
		MaxRetries:  maxRetries,
		BackoffBase: time.Duration(backoffBase) * time.Millisecond,
		BackoffCap:  time.Duration(backoffCap) * time.Millisecond,
	}
}

func loadPainterConfig() PainterConfig {
	concurrency, _ := strconv.Atoi(utils.GetEnv("PAINTER_CONCURRENCY", "1"))

	return PainterConfig{
		Concurrency: concurrency,
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	jsonFormat := environment == "production"

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: jsonFormat,
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("MEGAVERSE_BASE_URL is required")
	}

	if c.API.CandidateID == "" {
		return fmt.Errorf("MEGAVERSE_CANDIDATE_ID is required")
	}

	if _, err := uuid.Parse(c.API.CandidateID); err != nil {
		return fmt.Errorf("MEGAVERSE_CANDIDATE_ID must be a valid UUID: %w", err)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be positive")
	}

	if c.RateLimit.BurstSize < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST_SIZE must be at least 1")
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}

	if c.Retry.BackoffBase <= 0 {
		return fmt.Errorf("BACKOFF_BASE_MS must be positive")
	}

	if c.Retry.BackoffCap < c.Retry.BackoffBase {
		return fmt.Errorf("BACKOFF_CAP_MS must be at least BACKOFF_BASE_MS")
	}

	if c.Painter.Concurrency < 1 {
		return fmt.Errorf("PAINTER_CONCURRENCY must be at least 1")
	}

	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be positive")
	}

	return nil
}
