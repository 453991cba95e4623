// Package config provides configuration management for the application
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"agentchat/internal/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
)

// Engine kinds understood by the engine factory.
const (
	EngineClaude = "claude"
	EngineOpenAI = "openai"
	EngineRemote = "remote"
)

// DefaultSystemPrompt is the character prompt sent to model-backed engines
// when AGENT_SYSTEM_PROMPT is not set.
const DefaultSystemPrompt = "Respond to all messages in a helpful, conversational manner. " +
	"Provide assistance on a wide range of topics, using knowledge when needed. " +
	"Be concise but thorough, friendly but professional. " +
	"Use humor when appropriate and be empathetic to user needs. " +
	"When the user asks about guilds or communities to join or create, use the guild_recommendation tool."

// Config contains all configuration for the application
type Config struct {
	// Engine selection
	Engine string

	// Anthropic settings
	AnthropicAPIKey string
	ClaudeModel     string

	// OpenAI settings
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Remote agent server
	AgentURL string

	// Shared engine settings
	MaxTokens    int64
	Timeout      time.Duration
	AgentName    string
	SystemPrompt string
	EnableTools  bool

	Debug bool
}

// LoadDotEnv seeds the environment from a .env file in the working
// directory. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug().Msg("No .env file found, using environment variables")
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	log := logger.Get()
	log.Debug().Msg("Loading configuration from environment")

	config := &Config{
		Engine:          strings.ToLower(getEnvOrDefault("AGENT_ENGINE", EngineClaude)),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:     getEnvOrDefault("CLAUDE_MODEL", anthropic.ModelClaude3_5HaikuLatest),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AgentURL:        os.Getenv("AGENT_URL"),
		AgentName:       os.Getenv("AGENT_NAME"),
		SystemPrompt:    os.Getenv("AGENT_SYSTEM_PROMPT"),
		Debug:           getEnvBool("DEBUG", false),
	}

	maxTokensStr := getEnvOrDefault("MAX_TOKENS", "1024")
	maxTokens, err := strconv.ParseInt(maxTokensStr, 10, 64)
	if err != nil {
		log.Error().Err(err).Str("value", maxTokensStr).Msg("Invalid MAX_TOKENS value")
		return nil, fmt.Errorf("invalid MAX_TOKENS value: %w", err)
	}
	config.MaxTokens = maxTokens

	timeoutStr := getEnvOrDefault("AGENT_TIMEOUT", "60s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Error().Err(err).Str("value", timeoutStr).Msg("Invalid AGENT_TIMEOUT value")
		return nil, fmt.Errorf("invalid AGENT_TIMEOUT value: %w", err)
	}
	config.Timeout = timeout

	enableTools := getEnvOrDefault("AGENT_TOOLS", "true")
	config.EnableTools, err = strconv.ParseBool(enableTools)
	if err != nil {
		return nil, fmt.Errorf("invalid AGENT_TOOLS value: %w", err)
	}

	log.Debug().
		Str("engine", config.Engine).
		Int64("maxTokens", config.MaxTokens).
		Dur("timeout", config.Timeout).
		Msg("Loaded configuration")

	return config, nil
}

// WithDefaults sets default values for configuration fields that aren't set
func (c *Config) WithDefaults() *Config {
	logger.Get().Debug().Msg("Applying default configuration values")

	if c.Engine == "" {
		c.Engine = EngineClaude
	}
	if c.ClaudeModel == "" {
		c.ClaudeModel = anthropic.ModelClaude3_5HaikuLatest
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o-mini"
	}
	if c.AgentURL == "" {
		c.AgentURL = "http://localhost:5000"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.AgentName == "" {
		c.AgentName = "Eliza"
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}

	return c
}

// Validate checks if the configuration is valid for the selected engine
func (c *Config) Validate() error {
	log := logger.Get()
	log.Debug().Str("engine", c.Engine).Msg("Validating configuration")

	switch c.Engine {
	case EngineClaude:
		if c.AnthropicAPIKey == "" {
			log.Error().Msg("ANTHROPIC_API_KEY environment variable is not set")
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
	case EngineOpenAI:
		if c.OpenAIAPIKey == "" {
			log.Error().Msg("OPENAI_API_KEY environment variable is not set")
			return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	case EngineRemote:
		u, err := url.Parse(c.AgentURL)
		if err != nil {
			return fmt.Errorf("invalid AGENT_URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("AGENT_URL must use http or https, got %q", c.AgentURL)
		}
	default:
		return fmt.Errorf("unknown AGENT_ENGINE %q (want %s, %s or %s)",
			c.Engine, EngineClaude, EngineOpenAI, EngineRemote)
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be > 0")
	}

	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
