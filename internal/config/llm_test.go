package config

import (
	"os"
	"testing"
)

func TestLLMConfig_Finalize_RequiresAPIKey(t *testing.T) {
	cfg := &LLMConfig{}

	if err := cfg.Finalize(); err == nil {
		t.Fatal("Finalize() accepted missing api key")
	}
}

func TestLLMConfig_Finalize_Defaults(t *testing.T) {
	cfg := &LLMConfig{APIKey: "test-key"}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.Model == "" {
		t.Error("Model default not applied")
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.MaxCompletionTokens != 4096 {
		t.Errorf("MaxCompletionTokens = %d, want 4096", cfg.MaxCompletionTokens)
	}
}

func TestLLMConfig_Finalize_EnvOverrides(t *testing.T) {
	os.Setenv(EnvLLMAPIKey, "env-key")
	os.Setenv(EnvLLMModel, "env-model")
	defer func() {
		os.Unsetenv(EnvLLMAPIKey)
		os.Unsetenv(EnvLLMModel)
	}()

	cfg := &LLMConfig{}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.Model != "env-model" {
		t.Errorf("Model = %q, want env-model", cfg.Model)
	}
}

func TestLLMConfig_Finalize_RejectsInvalidTemperature(t *testing.T) {
	cfg := &LLMConfig{APIKey: "test-key", Temperature: 3.5}

	if err := cfg.Finalize(); err == nil {
		t.Fatal("Finalize() accepted out-of-range temperature")
	}
}
