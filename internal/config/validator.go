package config

import (
	"fmt"
	"strings"

	"github.com/genforge/genforge/internal/errors"
)

// ValidationContext specifies which subset of configuration a command needs.
type ValidationContext string

const (
	// ValidationContextGenerate - generate requires a working LLM client.
	ValidationContextGenerate ValidationContext = "generate"
	// ValidationContextValidate - validate only needs judge/pipeline settings.
	ValidationContextValidate ValidationContext = "validate"
	// ValidationContextAll - validate every section.
	ValidationContextAll ValidationContext = "all"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result.
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result.
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors.
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message.
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nwarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Validate validates configuration for the given context with auto-detected mode.
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	mode := DetectMode()
	return c.ValidateWithMode(ctx, mode)
}

// ValidateWithMode validates configuration for the given context and deployment mode.
func (c *Config) ValidateWithMode(ctx ValidationContext, mode DeploymentMode) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextGenerate:
		c.validateLLM(result, true, mode)
		c.validateJudge(result)
		c.validatePipeline(result)
	case ValidationContextValidate:
		c.validateJudge(result)
		c.validatePipeline(result)
	case ValidationContextAll:
		c.validateLLM(result, true, mode)
		c.validateJudge(result)
		c.validatePipeline(result)
	}

	return result
}

// ValidateOrFatal validates configuration and panics with a config error if invalid.
func (c *Config) ValidateOrFatal(ctx ValidationContext) {
	mode := DetectMode()
	c.ValidateOrFatalWithMode(ctx, mode)
}

// ValidateOrFatalWithMode validates configuration with an explicit mode and
// panics with a config error if invalid.
func (c *Config) ValidateOrFatalWithMode(ctx ValidationContext, mode DeploymentMode) {
	result := c.ValidateWithMode(ctx, mode)
	if result.HasErrors() {
		fmt.Println(result.Error())
		fmt.Printf("\ndeployment mode: %s (%s)\n", mode, mode.Description())
		panic(errors.ConfigError(result.Error()))
	}

	if len(result.Warnings) > 0 {
		fmt.Println("configuration warnings:")
		for _, warn := range result.Warnings {
			fmt.Printf("  - %s\n", warn)
		}
	}
}

func (c *Config) validateLLM(result *ValidationResult, required bool, mode DeploymentMode) {
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		result.AddError("llm.provider must be \"openai\" or \"gemini\", got %q", c.LLM.Provider)
	}

	if c.LLM.APIKey == "" {
		if required {
			result.AddError("no LLM API key found. Set OPENAI_API_KEY/GEMINI_API_KEY, the system keychain, or llm.api_key.")
		} else {
			result.AddWarning("no LLM API key configured")
		}
	} else if mode.RequiresSecureCredentials() && len(c.LLM.APIKey) < 20 {
		result.AddError("llm.api_key looks too short to be a real key; in %s mode a placeholder value is not allowed", mode)
	}

	if c.LLM.Model == "" {
		result.AddWarning("llm.model is not set, will use default model")
	}

	if c.LLM.TimeoutMs <= 0 {
		result.AddError("llm.timeout_ms must be > 0")
	}
}

func (c *Config) validateJudge(result *ValidationResult) {
	if c.Judge.TimeoutMs <= 0 {
		result.AddError("judge.timeout_ms must be > 0")
	}
	if c.Judge.BaselineTimeoutMs <= 0 {
		result.AddWarning("judge.baseline_timeout_ms is invalid, will use judge.timeout_ms")
	}
}

func (c *Config) validatePipeline(result *ValidationResult) {
	if c.Pipeline.MaxAttemptsPerSlot < 1 {
		result.AddError("pipeline.max_attempts_per_slot must be >= 1")
	}
	if c.Pipeline.TestCaseCount != 8 {
		result.AddError("pipeline.test_case_count is fixed at 8 for v1, got %d", c.Pipeline.TestCaseCount)
	}
	if c.Progress.BufferSize <= 0 {
		result.AddWarning("progress.buffer_size <= 0, the replay buffer will be unbounded")
	}
}

// RequireLLM checks the LLM configuration is valid and returns an error if not.
func (c *Config) RequireLLM() error {
	result := &ValidationResult{Valid: true}
	mode := DetectMode()
	c.validateLLM(result, true, mode)

	if result.HasErrors() {
		return errors.ConfigError(result.Error())
	}

	return nil
}
