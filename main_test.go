package main

import (
	"testing"

	"agentchat/internal/engine"
)

func TestLoadConfigReportsInitializationError(t *testing.T) {
	tests := []struct {
		key string
		val string
	}{
		{"MAX_TOKENS", "lots"},
		{"AGENT_TIMEOUT", "soon"},
		{"AGENT_TOOLS", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("MAX_TOKENS", "")
			t.Setenv("AGENT_TIMEOUT", "")
			t.Setenv("AGENT_TOOLS", "")
			t.Setenv(tt.key, tt.val)

			cfg, err := loadConfig()
			if cfg != nil {
				t.Errorf("loadConfig() returned config alongside error")
			}
			if !engine.IsInitialization(err) {
				t.Fatalf("loadConfig() error = %v, want *InitializationError", err)
			}
		})
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	t.Setenv("MAX_TOKENS", "")
	t.Setenv("AGENT_TIMEOUT", "")
	t.Setenv("AGENT_TOOLS", "")
	t.Setenv("AGENT_NAME", "")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.AgentName != "Eliza" || cfg.MaxTokens != 1024 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
