package config

import (
	"fmt"
	"os"
	"time"

	"github.com/docker/go-units"
)

const (
	// EnvChatCookieName overrides the current-thread cookie name.
	EnvChatCookieName = "CHAT_COOKIE_NAME"

	// EnvChatTitleBudget overrides the titler prompt budget, e.g. "8kb".
	EnvChatTitleBudget = "CHAT_TITLE_BUDGET"
)

// ChatConfig contains chat dispatch and thread presentation configuration.
type ChatConfig struct {
	CookieName   string `toml:"cookie_name"`
	CookieMaxAge int    `toml:"cookie_max_age"`
	TitleBudget  string `toml:"title_budget"`
	TitleTimeout string `toml:"title_timeout"`
	MaxTurns     int    `toml:"max_turns"`

	titleBudgetBytes int64
}

// TitleBudgetBytes returns the parsed titler prompt budget in bytes.
func (c *ChatConfig) TitleBudgetBytes() int64 {
	return c.titleBudgetBytes
}

// TitleTimeoutDuration returns the parsed title generation timeout.
func (c *ChatConfig) TitleTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.TitleTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the chat configuration.
func (c *ChatConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ChatConfig) Merge(overlay *ChatConfig) {
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.CookieMaxAge != 0 {
		c.CookieMaxAge = overlay.CookieMaxAge
	}
	if overlay.TitleBudget != "" {
		c.TitleBudget = overlay.TitleBudget
	}
	if overlay.TitleTimeout != "" {
		c.TitleTimeout = overlay.TitleTimeout
	}
	if overlay.MaxTurns != 0 {
		c.MaxTurns = overlay.MaxTurns
	}
}

func (c *ChatConfig) loadDefaults() {
	if c.CookieName == "" {
		c.CookieName = "current_thread"
	}
	if c.CookieMaxAge == 0 {
		c.CookieMaxAge = int((30 * 24 * time.Hour).Seconds())
	}
	if c.TitleBudget == "" {
		c.TitleBudget = "8kb"
	}
	if c.TitleTimeout == "" {
		c.TitleTimeout = "10s"
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = 8
	}
}

func (c *ChatConfig) loadEnv() {
	if v := os.Getenv(EnvChatCookieName); v != "" {
		c.CookieName = v
	}
	if v := os.Getenv(EnvChatTitleBudget); v != "" {
		c.TitleBudget = v
	}
}

func (c *ChatConfig) validate() error {
	size, err := units.FromHumanSize(c.TitleBudget)
	if err != nil {
		return fmt.Errorf("title_budget %q: %w", c.TitleBudget, err)
	}
	if size <= 0 {
		return fmt.Errorf("title_budget must be positive")
	}
	c.titleBudgetBytes = size

	if _, err := time.ParseDuration(c.TitleTimeout); err != nil {
		return fmt.Errorf("title_timeout %q: %w", c.TitleTimeout, err)
	}
	if c.MaxTurns < 1 {
		return fmt.Errorf("max_turns must be at least 1")
	}
	return nil
}
