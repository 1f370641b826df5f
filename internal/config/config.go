// Package config provides configuration loading and validation for the CLI
// and worker processes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration, loadable from a JSON file with
// environment variables taking precedence. All fields are optional;
// missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Model provider
	Provider      string `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini anthropic"`
	APIKey        string `json:"api_key,omitempty"`
	BaseURL       string `json:"base_url,omitempty" validate:"omitempty,url"`
	LiteModel     string `json:"lite_model,omitempty"`
	StandardModel string `json:"standard_model,omitempty"`
	AdvancedModel string `json:"advanced_model,omitempty"`

	// Storage
	DatabaseURL   string `json:"database_url,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	// CacheBackend selects the cache: redis, memory, or none.
	CacheBackend string `json:"cache_backend,omitempty" validate:"omitempty,oneof=redis memory none"`

	// Worker
	Concurrency int `json:"concurrency,omitempty" validate:"omitempty,min=1,max=64"`
	MetricsAddr string `json:"metrics_addr,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"`
	Verbose    bool `json:"verbose,omitempty"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// LoadEnv reads a .env file if present (missing is fine) and returns a
// config populated from environment variables. Callers layer the result
// over a config file with Merge, so environment values win.
func LoadEnv() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:      os.Getenv("APPLYFORGE_PROVIDER"),
		APIKey:        os.Getenv("APPLYFORGE_API_KEY"),
		BaseURL:       os.Getenv("APPLYFORGE_BASE_URL"),
		LiteModel:     os.Getenv("APPLYFORGE_LITE_MODEL"),
		StandardModel: os.Getenv("APPLYFORGE_STANDARD_MODEL"),
		AdvancedModel: os.Getenv("APPLYFORGE_ADVANCED_MODEL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheBackend:  os.Getenv("APPLYFORGE_CACHE"),
		MetricsAddr:   os.Getenv("APPLYFORGE_METRICS_ADDR"),
	}
	if v := os.Getenv("APPLYFORGE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("APPLYFORGE_USE_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseBrowser = b
		}
	}
	if v := os.Getenv("APPLYFORGE_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("config validation failed: %w", err)
		}
		for _, fieldErr := range err.(validator.ValidationErrors) {
			return fmt.Errorf("config error: field %s failed %q validation", fieldErr.Field(), fieldErr.Tag())
		}
	}
	if c.CacheBackend == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("config error: cache_backend \"redis\" requires redis_addr")
	}
	return nil
}

// Merge returns a new Config with empty fields filled from defaults.
// Used to layer environment values over a config file.
func (c *Config) Merge(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.LiteModel == "" {
		result.LiteModel = defaults.LiteModel
	}
	if result.StandardModel == "" {
		result.StandardModel = defaults.StandardModel
	}
	if result.AdvancedModel == "" {
		result.AdvancedModel = defaults.AdvancedModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.CacheBackend == "" {
		result.CacheBackend = defaults.CacheBackend
	}
	if result.MetricsAddr == "" {
		result.MetricsAddr = defaults.MetricsAddr
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields cannot distinguish unset from false, so a true on
	// either layer sticks; CLI flags still override afterwards.
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
