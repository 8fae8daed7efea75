package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.MaxAttemptsPerSlot != 3 {
		t.Errorf("expected default max_attempts_per_slot 3, got %d", cfg.Pipeline.MaxAttemptsPerSlot)
	}
	if cfg.Pipeline.TestCaseCount != 8 {
		t.Errorf("expected default test_case_count 8, got %d", cfg.Pipeline.TestCaseCount)
	}
	if !cfg.Pipeline.SoftFallbackEnabled {
		t.Error("expected soft_fallback_enabled to default true")
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected default llm provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.TimeoutMs != 60_000 {
		t.Errorf("expected default llm timeout 60000ms, got %d", cfg.LLM.TimeoutMs)
	}
	if cfg.Judge.TimeoutMs != 90_000 {
		t.Errorf("expected default judge timeout 90000ms, got %d", cfg.Judge.TimeoutMs)
	}
}

func TestValidateWithMode_GenerateRequiresAPIKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = ""

	result := cfg.ValidateWithMode(ValidationContextGenerate, ModeDevelopment)
	if !result.HasErrors() {
		t.Fatal("expected validation error when no API key is configured")
	}
}

func TestValidateWithMode_GenerateAcceptsConfiguredKey(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-test-1234567890abcdef"

	result := cfg.ValidateWithMode(ValidationContextGenerate, ModeDevelopment)
	if result.HasErrors() {
		t.Fatalf("expected no validation errors, got: %v", result.Errors)
	}
}

func TestValidateWithMode_RejectsUnsupportedProvider(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-test-1234567890abcdef"
	cfg.LLM.Provider = "anthropic"

	result := cfg.ValidateWithMode(ValidationContextGenerate, ModeDevelopment)
	if !result.HasErrors() {
		t.Fatal("expected validation error for unsupported provider")
	}
}

func TestValidatePipeline_RejectsNonDefaultTestCaseCount(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-test-1234567890abcdef"
	cfg.Pipeline.TestCaseCount = 10

	result := cfg.ValidateWithMode(ValidationContextAll, ModeDevelopment)
	if !result.HasErrors() {
		t.Fatal("expected validation error when test_case_count is not fixed at 8")
	}
}

func TestLLMTimeoutAndJudgeTimeout(t *testing.T) {
	cfg := Default()
	if cfg.LLMTimeout().Seconds() != 60 {
		t.Errorf("expected LLMTimeout() of 60s, got %v", cfg.LLMTimeout())
	}
	if cfg.JudgeTimeout().Seconds() != 90 {
		t.Errorf("expected JudgeTimeout() of 90s, got %v", cfg.JudgeTimeout())
	}
}
