// Package claude answers turns with Anthropic's Messages API, resolving any
// tool calls the model makes before returning its text.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"agentchat/internal/agent/tools"
	"agentchat/internal/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessageClient is the slice of the Anthropic client the engine needs.
type MessageClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Config holds configuration options for creating a new Engine
type Config struct {
	APIKey       string
	Model        string
	MaxTokens    int64
	SystemPrompt string
	Timeout      time.Duration
	Tools        []tools.ToolDefinition

	// Client overrides the Anthropic client built from APIKey.
	Client MessageClient
}

// Engine is a Claude-powered conversational engine. It keeps the
// conversation for the lifetime of the session.
type Engine struct {
	client         MessageClient
	model          string
	maxTokens      int64
	system         string
	timeout        time.Duration
	registry       *tools.Registry
	loopProtection *tools.LoopProtection

	conversation []anthropic.MessageParam
}

// New creates a new Engine with the provided configuration
func New(config Config) (*Engine, error) {
	client := config.Client
	if client == nil {
		if config.APIKey == "" {
			return nil, errors.New("anthropic API key is required")
		}
		c := anthropic.NewClient(option.WithAPIKey(config.APIKey))
		client = &c.Messages
	}
	if config.Model == "" {
		return nil, errors.New("model is required")
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	logger.Get().Debug().
		Str("model", config.Model).
		Int64("maxTokens", maxTokens).
		Int("numTools", len(config.Tools)).
		Msg("Creating Claude engine")

	return &Engine{
		client:         client,
		model:          config.Model,
		maxTokens:      maxTokens,
		system:         config.SystemPrompt,
		timeout:        config.Timeout,
		registry:       tools.NewRegistry(config.Tools),
		loopProtection: tools.NewLoopProtection(),
	}, nil
}

// Name identifies the engine in logs and errors.
func (e *Engine) Name() string {
	return "claude"
}

// Respond sends input to Claude and returns the assistant's text. On failure
// the conversation is rolled back to where it was before the turn.
func (e *Engine) Respond(ctx context.Context, input string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	checkpoint := len(e.conversation)
	e.loopProtection.Reset()
	e.conversation = append(e.conversation, anthropic.NewUserMessage(anthropic.NewTextBlock(input)))

	for {
		start := time.Now()
		message, err := e.generateResponse(ctx)
		if err != nil {
			e.conversation = e.conversation[:checkpoint]
			return "", fmt.Errorf("messages request failed: %w", err)
		}
		logger.Get().Debug().
			Str("model", e.model).
			Str("stopReason", string(message.StopReason)).
			Dur("latency", time.Since(start)).
			Msg("Received Claude response")

		e.conversation = append(e.conversation, message.ToParam())

		toolResults, err := e.processToolUsages(message)
		if err != nil {
			e.conversation = e.conversation[:checkpoint]
			return "", err
		}
		if len(toolResults) == 0 {
			return messageText(message), nil
		}

		// Add tool results to conversation and continue without user input
		e.conversation = append(e.conversation, anthropic.NewUserMessage(toolResults...))
	}
}

// processToolUsages executes every tool_use block in message and returns
// the results to send back.
func (e *Engine) processToolUsages(message *anthropic.Message) ([]anthropic.ContentBlockParamUnion, error) {
	toolResults := []anthropic.ContentBlockParamUnion{}

	for _, content := range message.Content {
		if content.Type != "tool_use" {
			continue
		}
		if err := e.loopProtection.Record(content.Name); err != nil {
			return nil, err
		}
		toolResults = append(toolResults, e.executeTool(content.ID, content.Name, content.Input))
	}

	return toolResults, nil
}

// executeTool runs the specified tool and returns its result
func (e *Engine) executeTool(id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	logger.Get().Info().
		Str("tool", name).
		RawJSON("input", input).
		Msg("Executing tool")

	response, err := e.registry.Execute(name, input)
	if err != nil {
		logger.Get().Error().Err(err).Str("tool", name).Msg("Tool failed")
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}

	return anthropic.NewToolResultBlock(id, response, false)
}

// generateResponse sends the conversation to Claude and gets a response
func (e *Engine) generateResponse(ctx context.Context) (*anthropic.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		Messages:  e.conversation,
		Tools:     e.prepareToolDefinitions(),
	}
	if e.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: e.system}}
	}

	return e.client.New(ctx, params)
}

// prepareToolDefinitions converts local tool definitions to Anthropic format
func (e *Engine) prepareToolDefinitions() []anthropic.ToolUnionParam {
	defs := e.registry.All()
	anthropicTools := make([]anthropic.ToolUnionParam, len(defs))

	for i, tool := range defs {
		anthropicTools[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: tool.InputSchema,
			},
		}
	}

	return anthropicTools
}

func messageText(message *anthropic.Message) string {
	var parts []string
	for _, content := range message.Content {
		if content.Type == "text" {
			parts = append(parts, content.Text)
		}
	}
	return strings.Join(parts, "\n")
}
