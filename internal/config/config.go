package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for a generateFromSpec run (spec.md §6
// Configuration). Fields mirror the defaults the spec fixes, with
// environment and config-file overrides layered the way the teacher's
// Config does for its own settings.
type Config struct {
	// Pipeline controls the per-slot retry table and quality gates.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// LLM selects and authenticates the completion provider.
	LLM LLMConfig `yaml:"llm"`

	// Judge controls the execution sandbox's timeout.
	Judge JudgeConfig `yaml:"judge"`

	// Progress controls the durable replay buffer.
	Progress ProgressConfig `yaml:"progress"`
}

// PipelineConfig holds the knobs spec.md §6 names explicitly.
type PipelineConfig struct {
	MaxAttemptsPerSlot int  `yaml:"max_attempts_per_slot"`
	TestCaseCount      int  `yaml:"test_case_count"`
	SoftFallbackEnabled bool `yaml:"soft_fallback_enabled"`
	TraceTestSuites    bool `yaml:"trace_test_suites"`
}

type LLMConfig struct {
	Provider    string `yaml:"provider"` // "openai" or "gemini"
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	UseKeychain bool   `yaml:"use_keychain"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	Temperature float32 `yaml:"temperature"`
}

type JudgeConfig struct {
	TimeoutMs        int `yaml:"timeout_ms"`
	BaselineTimeoutMs int `yaml:"baseline_timeout_ms"`
}

type ProgressConfig struct {
	BufferPath string `yaml:"buffer_path"`
	BufferSize int    `yaml:"buffer_size"`
}

// Default returns the configuration spec.md §6 fixes as defaults.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Pipeline: PipelineConfig{
			MaxAttemptsPerSlot:  3,
			TestCaseCount:       8,
			SoftFallbackEnabled: true,
			TraceTestSuites:     false,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			TimeoutMs:   60_000,
			Temperature: 0.2,
		},
		Judge: JudgeConfig{
			TimeoutMs:         90_000,
			BaselineTimeoutMs: 90_000,
		},
		Progress: ProgressConfig{
			BufferPath: filepath.Join(homeDir, ".genforge", "progress.db"),
			BufferSize: 4096,
		},
	}
}

// Load reads configuration from path (or the standard search locations),
// layering environment overrides on top the way the teacher's config.Load
// layers CODERISK_ env vars over a YAML file.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("pipeline", cfg.Pipeline)
	v.SetDefault("llm", cfg.LLM)
	v.SetDefault("judge", cfg.Judge)
	v.SetDefault("progress", cfg.Progress)

	v.SetEnvPrefix("GENFORGE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".genforge")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".genforge"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvFiles() {
	envFiles := []string{".env.local", ".env", ".env.example"}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err == nil {
				continue
			}
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".genforge", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Precedence: env var (highest) > keychain > config file (lowest), matching
// the teacher's API key precedence for its own OPENAI_API_KEY handling.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	} else {
		km := NewKeyringManager()
		if km.IsAvailable() {
			if keychainKey, err := km.GetAPIKey(); err == nil && keychainKey != "" {
				cfg.LLM.APIKey = keychainKey
			}
		}
	}

	if provider := os.Getenv("GENFORGE_LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model := os.Getenv("GENFORGE_LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if timeout := os.Getenv("GENFORGE_LLM_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil {
			cfg.LLM.TimeoutMs = ms
		}
	}
	if timeout := os.Getenv("GENFORGE_JUDGE_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil {
			cfg.Judge.TimeoutMs = ms
		}
	}
	if attempts := os.Getenv("GENFORGE_MAX_ATTEMPTS_PER_SLOT"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil {
			cfg.Pipeline.MaxAttemptsPerSlot = n
		}
	}
	if fallback := os.Getenv("GENFORGE_SOFT_FALLBACK_ENABLED"); fallback != "" {
		cfg.Pipeline.SoftFallbackEnabled = fallback == "true"
	}
	if trace := os.Getenv("GENFORGE_TRACE_TEST_SUITES"); trace != "" {
		cfg.Pipeline.TraceTestSuites = trace == "true"
	}
	if path := os.Getenv("GENFORGE_PROGRESS_BUFFER_PATH"); path != "" {
		cfg.Progress.BufferPath = expandPath(path)
	}
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save writes configuration to path as YAML.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("pipeline", c.Pipeline)
	v.Set("llm", c.LLM)
	v.Set("judge", c.Judge)
	v.Set("progress", c.Progress)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LLMTimeout returns the configured LLM call timeout as a time.Duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutMs) * time.Millisecond
}

// JudgeTimeout returns the configured judge call timeout as a time.Duration.
func (c *Config) JudgeTimeout() time.Duration {
	return time.Duration(c.Judge.TimeoutMs) * time.Millisecond
}
