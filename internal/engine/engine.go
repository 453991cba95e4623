// Package engine defines the conversational engine contract and builds the
// configured engine.
package engine

import (
	"context"
	"fmt"

	"agentchat/internal/agent/tools"
	"agentchat/internal/config"
	"agentchat/internal/engine/claude"
	"agentchat/internal/engine/completions"
	"agentchat/internal/engine/remote"
	"agentchat/internal/logger"
)

// Engine produces a response for one turn of conversation. Engines may keep
// conversation state between calls; they are not safe for concurrent use.
type Engine interface {
	Respond(ctx context.Context, input string) (string, error)
}

// Namer is implemented by engines that can identify themselves.
type Namer interface {
	Name() string
}

// NameOf returns e's name, or "engine" when it has none.
func NameOf(e Engine) string {
	if n, ok := e.(Namer); ok {
		return n.Name()
	}
	return "engine"
}

// New builds the engine selected by cfg. It returns either a ready engine or
// an *InitializationError, never a nil engine with a nil error.
func New(cfg *config.Config) (Engine, error) {
	if cfg == nil {
		return nil, &InitializationError{Err: fmt.Errorf("no configuration")}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &InitializationError{Engine: cfg.Engine, Err: err}
	}

	var defs []tools.ToolDefinition
	if cfg.EnableTools {
		defs = tools.GetAllTools()
	}

	var (
		e   Engine
		err error
	)
	switch cfg.Engine {
	case config.EngineClaude:
		e, err = newClaude(cfg, defs)
	case config.EngineOpenAI:
		e, err = newCompletions(cfg, defs)
	case config.EngineRemote:
		e, err = newRemote(cfg)
	default:
		err = fmt.Errorf("unknown engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, &InitializationError{Engine: cfg.Engine, Err: err}
	}

	logger.Get().Info().Str("engine", cfg.Engine).Msg("Engine initialized")
	return e, nil
}

// The constructors below return the interface only on success so a typed
// nil pointer never escapes as a non-nil Engine.

func newClaude(cfg *config.Config, defs []tools.ToolDefinition) (Engine, error) {
	e, err := claude.New(claude.Config{
		APIKey:       cfg.AnthropicAPIKey,
		Model:        cfg.ClaudeModel,
		MaxTokens:    cfg.MaxTokens,
		SystemPrompt: systemPrompt(cfg),
		Timeout:      cfg.Timeout,
		Tools:        defs,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func newCompletions(cfg *config.Config, defs []tools.ToolDefinition) (Engine, error) {
	e, err := completions.New(completions.Config{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.OpenAIModel,
		MaxTokens:    cfg.MaxTokens,
		SystemPrompt: systemPrompt(cfg),
		Timeout:      cfg.Timeout,
		Tools:        defs,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// systemPrompt introduces the agent by name ahead of the configured prompt.
func systemPrompt(cfg *config.Config) string {
	if cfg.AgentName == "" {
		return cfg.SystemPrompt
	}
	return fmt.Sprintf("You are %s. %s", cfg.AgentName, cfg.SystemPrompt)
}

func newRemote(cfg *config.Config) (Engine, error) {
	e, err := remote.New(remote.Config{
		BaseURL: cfg.AgentURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}
