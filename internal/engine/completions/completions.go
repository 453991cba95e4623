// Package completions answers turns with an OpenAI-compatible chat
// completions endpoint.
package completions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agentchat/internal/agent/tools"
	"agentchat/internal/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultMaxTurns bounds the tool round trips in one Respond call.
const DefaultMaxTurns = 8

// CompletionClient is the slice of the OpenAI client the engine needs.
type CompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Config holds configuration options for creating a new Engine
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int64
	MaxTurns     int
	SystemPrompt string
	Timeout      time.Duration
	Tools        []tools.ToolDefinition

	// Client overrides the client built from APIKey and BaseURL.
	Client CompletionClient
}

// Engine is a chat-completions backed conversational engine.
type Engine struct {
	client         CompletionClient
	model          string
	maxTokens      int64
	maxTurns       int
	timeout        time.Duration
	registry       *tools.Registry
	toolParams     []openai.ChatCompletionToolParam
	loopProtection *tools.LoopProtection

	messages []openai.ChatCompletionMessageParamUnion
}

// New creates a new Engine with the provided configuration
func New(config Config) (*Engine, error) {
	client := config.Client
	if client == nil {
		if config.APIKey == "" {
			return nil, errors.New("openai API key is required")
		}
		opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
		if config.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(config.BaseURL))
		}
		c := openai.NewClient(opts...)
		client = &c.Chat.Completions
	}
	if config.Model == "" {
		return nil, errors.New("model is required")
	}

	toolParams, err := defineTools(config.Tools)
	if err != nil {
		return nil, err
	}

	maxTurns := config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	e := &Engine{
		client:         client,
		model:          config.Model,
		maxTokens:      config.MaxTokens,
		maxTurns:       maxTurns,
		timeout:        config.Timeout,
		registry:       tools.NewRegistry(config.Tools),
		toolParams:     toolParams,
		loopProtection: tools.NewLoopProtection(),
	}
	if config.SystemPrompt != "" {
		e.messages = append(e.messages, openai.SystemMessage(config.SystemPrompt))
	}

	logger.Get().Debug().
		Str("model", config.Model).
		Str("baseUrl", config.BaseURL).
		Int("numTools", len(toolParams)).
		Msg("Creating OpenAI engine")

	return e, nil
}

// defineTools converts tool definitions to chat-completions function tools.
func defineTools(defs []tools.ToolDefinition) ([]openai.ChatCompletionToolParam, error) {
	var params []openai.ChatCompletionToolParam
	for _, d := range defs {
		schema, err := d.Parameters()
		if err != nil {
			return nil, err
		}
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: openai.String(d.Description),
				Parameters:  openai.FunctionParameters(schema),
			},
		})
	}
	return params, nil
}

// Name identifies the engine in logs and errors.
func (e *Engine) Name() string {
	return "openai"
}

// Respond sends input to the model and returns its reply. On failure the
// message history is rolled back to where it was before the turn.
func (e *Engine) Respond(ctx context.Context, input string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	checkpoint := len(e.messages)
	e.loopProtection.Reset()
	e.messages = append(e.messages, openai.UserMessage(input))

	for tries := 0; tries < e.maxTurns; tries++ {
		params := openai.ChatCompletionNewParams{
			Model:    e.model,
			Messages: e.messages,
			Tools:    e.toolParams,
		}
		if e.maxTokens > 0 {
			params.MaxCompletionTokens = openai.Int(e.maxTokens)
		}

		start := time.Now()
		completion, err := e.client.New(ctx, params)
		if err != nil {
			e.messages = e.messages[:checkpoint]
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			e.messages = e.messages[:checkpoint]
			return "", errors.New("chat completion returned no choices")
		}

		choice := completion.Choices[0]
		logger.Get().Debug().
			Str("model", e.model).
			Int("try", tries).
			Str("finishReason", string(choice.FinishReason)).
			Dur("latency", time.Since(start)).
			Msg("Received chat completion")

		e.messages = append(e.messages, choice.Message.ToParam())

		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		for _, call := range choice.Message.ToolCalls {
			if err := e.loopProtection.Record(call.Function.Name); err != nil {
				e.messages = e.messages[:checkpoint]
				return "", err
			}
			e.messages = append(e.messages, openai.ToolMessage(e.executeTool(call.Function.Name, call.Function.Arguments), call.ID))
		}
	}

	e.messages = e.messages[:checkpoint]
	return "", fmt.Errorf("no final answer after %d turns", e.maxTurns)
}

func (e *Engine) executeTool(name, arguments string) string {
	logger.Get().Info().
		Str("tool", name).
		Str("input", arguments).
		Msg("Executing tool")

	out, err := e.registry.Execute(name, json.RawMessage(arguments))
	if err != nil {
		logger.Get().Error().Err(err).Str("tool", name).Msg("Tool failed")
		return err.Error()
	}
	return out
}
