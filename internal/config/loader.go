package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential means no API key is configured for the generation service.
// Plan requests must short-circuit on it without retrying.
var ErrMissingCredential = errors.New("generation service API key is not configured")

// Provider names accepted in llm.provider
const (
	ProviderDashScope = "dashscope"
	ProviderOpenAI    = "openai"
)

// Config holds all configuration for the planner
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Memory  MemoryConfig  `yaml:"memory"`
	Planner PlannerConfig `yaml:"planner"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LLMConfig configures the text-generation endpoint and the retry policy around it
type LLMConfig struct {
	Provider          string        `yaml:"provider" envconfig:"PLANNER_LLM_PROVIDER"`
	APIKey            string        `yaml:"api_key" envconfig:"DASHSCOPE_API_KEY"`
	BaseURL           string        `yaml:"base_url" envconfig:"PLANNER_LLM_BASE_URL"`
	Model             string        `yaml:"model" envconfig:"PLANNER_LLM_MODEL"`
	Temperature       float64       `yaml:"temperature" envconfig:"PLANNER_LLM_TEMPERATURE"`
	MaxTokens         int           `yaml:"max_tokens" envconfig:"PLANNER_LLM_MAX_TOKENS"`
	MaxRetries        int           `yaml:"max_retries" envconfig:"PLANNER_LLM_MAX_RETRIES"`
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"PLANNER_LLM_RPS"`
	Timeouts          TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig is the per-attempt timeout for each plan kind
type TimeoutConfig struct {
	Daily  time.Duration `yaml:"daily" envconfig:"PLANNER_TIMEOUT_DAILY"`
	Weekly time.Duration `yaml:"weekly" envconfig:"PLANNER_TIMEOUT_WEEKLY"`
	Custom time.Duration `yaml:"custom" envconfig:"PLANNER_TIMEOUT_CUSTOM"`
}

// MemoryConfig configures the personalization store
type MemoryConfig struct {
	File               string `yaml:"file" envconfig:"PLANNER_MEMORY_FILE"`
	ShortTermCapacity  int    `yaml:"short_term_capacity"`
	PreferenceCapacity int    `yaml:"preference_capacity"`
	RedisURL           string `yaml:"redis_url" envconfig:"REDIS_URL"`
	RedisKey           string `yaml:"redis_key"`
}

// PlannerConfig holds engine behaviour switches
type PlannerConfig struct {
	Timezone    string `yaml:"timezone" envconfig:"PLANNER_TIMEZONE"`
	AutoArchive bool   `yaml:"auto_archive" envconfig:"PLANNER_AUTO_ARCHIVE"`
}

// LogConfig configures the global logger
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format     string `yaml:"format" envconfig:"LOG_FORMAT"`
	Output     string `yaml:"output" envconfig:"LOG_OUTPUT"`
	FilePath   string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
	TimeFormat string `yaml:"time_format" envconfig:"LOG_TIME_FORMAT"`
}

// MetricsConfig configures the Prometheus endpoint used by long-running modes
type MetricsConfig struct {
	Addr string `yaml:"addr" envconfig:"PLANNER_METRICS_ADDR"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderDashScope,
			BaseURL:     "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation",
			Model:       "qwen-turbo",
			Temperature: 0.1,
			MaxTokens:   2000,
			MaxRetries:  3,
			Timeouts: TimeoutConfig{
				Daily:  60 * time.Second,
				Weekly: 45 * time.Second,
				Custom: 60 * time.Second,
			},
		},
		Memory: MemoryConfig{
			File:               "memory_storage.json",
			ShortTermCapacity:  10,
			PreferenceCapacity: 20,
			RedisKey:           "planner:short_term",
		},
		Planner: PlannerConfig{
			Timezone:    "Local",
			AutoArchive: true,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			FilePath:   "logs/planner.log",
			TimeFormat: "rfc3339",
		},
	}
}

// Load builds the configuration: defaults, then the optional .env file, then the
// optional YAML file, then environment variables.
func Load(filepath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// no file, defaults stand
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the engine misbehave.
// A missing API key is not a validation error: it is reported per request.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderDashScope, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("llm.max_retries must be at least 1, got %d", c.LLM.MaxRetries)
	}
	if c.LLM.Timeouts.Daily <= 0 || c.LLM.Timeouts.Weekly <= 0 || c.LLM.Timeouts.Custom <= 0 {
		return errors.New("llm.timeouts must be positive")
	}
	if c.Memory.ShortTermCapacity < 1 || c.Memory.PreferenceCapacity < 1 {
		return errors.New("memory capacities must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// HasCredential reports whether an API key is available
func (c *Config) HasCredential() bool {
	return c.LLM.APIKey != ""
}

// Location resolves planner.timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Planner.Timezone == "" || c.Planner.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Planner.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid planner.timezone %q: %w", c.Planner.Timezone, err)
	}
	return loc, nil
}
