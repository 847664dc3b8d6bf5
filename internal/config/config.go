package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

// ErrMissingToken is returned by Validate when no inference credential is set.
var ErrMissingToken = errors.New("HF_TOKEN environment variable is not set")

// Default Hugging Face models for each inference task.
const (
	DefaultSentimentModel     = "distilbert-base-uncased-finetuned-sst-2-english"
	DefaultSummarizationModel = "facebook/bart-large-cnn"
	DefaultZeroShotModel      = "facebook/bart-large-mnli"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Rate limiting
	RateLimitMax int    // Requests per minute per IP, 0 disables the limiter
	RedisURL     string // Shared limiter storage, in-memory when empty

	// Inference
	HFToken   string
	HFBaseURL string
	HFTimeout time.Duration
	Models    ModelConfig

	// Background probe of the inference service, 0 disables it
	MonitorInterval time.Duration

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "Mneme AI Notes"
	SiteTagline string // env: SITE_TAGLINE
}

// ModelConfig names the hosted model used for each inference task.
type ModelConfig struct {
	Sentiment     string `yaml:"sentiment"`
	Summarization string `yaml:"summarization"`
	ZeroShot      string `yaml:"zero_shot"`
}

// LoadEnvFile loads variables from an env file into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile() {
	path := getEnv("ENV_FILE", ".env")
	if err := gotenv.Load(path); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to load env file", "path", path, "error", err)
		}
	}
}

// Load reads configuration from environment variables with sensible defaults,
// then applies model overrides from the optional YAML file.
func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		ServerAddr:      getEnv("SERVER_ADDR", ":3000"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:3000"),
		TLSEnabled:      getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", ""),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RedisURL:        getEnv("REDIS_URL", ""),
		HFToken:         getEnv("HF_TOKEN", ""),
		HFBaseURL:       getEnv("HF_BASE_URL", "https://router.huggingface.co/hf-inference/models"),
		HFTimeout:       getEnvDuration("HF_TIMEOUT", 60*time.Second),
		MonitorInterval: getEnvDuration("MONITOR_INTERVAL", 5*time.Minute),
		Models: ModelConfig{
			Sentiment:     DefaultSentimentModel,
			Summarization: DefaultSummarizationModel,
			ZeroShot:      DefaultZeroShotModel,
		},

		SiteTitle:   getEnv("SITE_TITLE", "Mneme AI Notes"),
		SiteTagline: getEnv("SITE_TAGLINE", "Paste your notes and let AI analyze and categorize them for you."),
	}

	yamlCfg, err := LoadYAMLConfig()
	if err != nil {
		return nil, err
	}
	yamlCfg.apply(cfg)

	return cfg, nil
}

// Validate reports configuration the server cannot start without.
func (c *Config) Validate() error {
	if c.HFToken == "" {
		return ErrMissingToken
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("TLS_ENABLED requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
