package config

import (
	"testing"
	"time"
)

func TestChatConfig_Finalize_Defaults(t *testing.T) {
	cfg := &ChatConfig{}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.CookieName != "current_thread" {
		t.Errorf("CookieName = %q, want current_thread", cfg.CookieName)
	}
	if cfg.TitleBudgetBytes() != 8000 {
		t.Errorf("TitleBudgetBytes = %d, want 8000", cfg.TitleBudgetBytes())
	}
	if cfg.TitleTimeoutDuration() != 10*time.Second {
		t.Errorf("TitleTimeout = %v, want 10s", cfg.TitleTimeoutDuration())
	}
	if cfg.MaxTurns != 8 {
		t.Errorf("MaxTurns = %d, want 8", cfg.MaxTurns)
	}
}

func TestChatConfig_Finalize_ParsesHumanSizes(t *testing.T) {
	cfg := &ChatConfig{TitleBudget: "2MB"}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	if cfg.TitleBudgetBytes() != 2_000_000 {
		t.Errorf("TitleBudgetBytes = %d, want 2000000", cfg.TitleBudgetBytes())
	}
}

func TestChatConfig_Finalize_RejectsInvalidBudget(t *testing.T) {
	cfg := &ChatConfig{TitleBudget: "lots"}

	if err := cfg.Finalize(); err == nil {
		t.Fatal("Finalize() accepted invalid title budget")
	}
}

func TestChatConfig_Finalize_RejectsInvalidTimeout(t *testing.T) {
	cfg := &ChatConfig{TitleTimeout: "soon"}

	if err := cfg.Finalize(); err == nil {
		t.Fatal("Finalize() accepted invalid title timeout")
	}
}

func TestChatConfig_Merge(t *testing.T) {
	cfg := &ChatConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}

	cfg.Merge(&ChatConfig{CookieName: "session_thread", MaxTurns: 3})

	if cfg.CookieName != "session_thread" {
		t.Errorf("CookieName = %q, want session_thread", cfg.CookieName)
	}
	if cfg.MaxTurns != 3 {
		t.Errorf("MaxTurns = %d, want 3", cfg.MaxTurns)
	}
	if cfg.TitleBudget != "8kb" {
		t.Errorf("TitleBudget = %q, want unchanged 8kb", cfg.TitleBudget)
	}
}
