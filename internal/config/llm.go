package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// EnvLLMBaseURL overrides the inference endpoint base URL.
	EnvLLMBaseURL = "LLM_BASE_URL"

	// EnvLLMAPIKey overrides the inference API key.
	EnvLLMAPIKey = "LLM_API_KEY"

	// EnvLLMModel overrides the model identifier.
	EnvLLMModel = "LLM_MODEL"
)

// LLMConfig contains inference provider configuration shared by the
// coordinator, specialists, and the thread titler.
type LLMConfig struct {
	BaseURL             string  `toml:"base_url"`
	APIKey              string  `toml:"api_key"`
	Model               string  `toml:"model"`
	Temperature         float64 `toml:"temperature"`
	MaxCompletionTokens int64   `toml:"max_completion_tokens"`
}

// Finalize applies defaults, loads environment overrides, and validates the LLM configuration.
func (c *LLMConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *LLMConfig) Merge(overlay *LLMConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxCompletionTokens != 0 {
		c.MaxCompletionTokens = overlay.MaxCompletionTokens
	}
}

func (c *LLMConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4.1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxCompletionTokens == 0 {
		c.MaxCompletionTokens = 4096
	}
}

func (c *LLMConfig) loadEnv() {
	if v := os.Getenv(EnvLLMBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv("LLM_MAX_COMPLETION_TOKENS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxCompletionTokens = n
		}
	}
}

func (c *LLMConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required (set %s)", EnvLLMAPIKey)
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]")
	}
	return nil
}
