// Package tools provides the capabilities a model-backed engine may call while
// answering a turn. Each tool has a name, a description, a JSON input schema
// and a Go implementation.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// ToolDefinition defines a tool that can be used by an engine.
type ToolDefinition struct {
	// Name is the identifier of the tool used by the model to invoke it
	Name string `json:"name"`

	// Description explains what the tool does and when to use it
	Description string `json:"description"`

	// InputSchema defines the expected parameters and their types
	InputSchema anthropic.ToolInputSchemaParam `json:"input_schema"`

	// Function is the implementation executed when the tool is used
	Function func(input json.RawMessage) (string, error)
}

// Parameters returns the input schema as a plain JSON object, the shape
// expected by function-calling APIs other than Anthropic's.
func (t ToolDefinition) Parameters() (map[string]any, error) {
	raw, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": t.InputSchema.Properties,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema for %s: %w", t.Name, err)
	}

	params := map[string]any{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to decode schema for %s: %w", t.Name, err)
	}
	return params, nil
}

// GenerateSchema creates a JSON schema for the given type
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var v T

	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

// GetAllTools returns all available tools
func GetAllTools() []ToolDefinition {
	return []ToolDefinition{
		TimeProviderToolDefinition,
		GuildRecommendationToolDefinition,
	}
}

// Registry looks tools up by name.
type Registry struct {
	tools []ToolDefinition
}

// NewRegistry wraps defs. A nil or empty slice yields a registry that offers
// nothing.
func NewRegistry(defs []ToolDefinition) *Registry {
	return &Registry{tools: defs}
}

// All returns the registered tools in registration order.
func (r *Registry) All() []ToolDefinition {
	if r == nil {
		return nil
	}
	return r.tools
}

// Find searches for a tool by name
func (r *Registry) Find(name string) (ToolDefinition, bool) {
	for _, tool := range r.All() {
		if tool.Name == name {
			return tool, true
		}
	}
	return ToolDefinition{}, false
}

// Execute runs the named tool. Unknown tools and tool failures are both
// reported as errors so the caller can hand them back to the model.
func (r *Registry) Execute(name string, input json.RawMessage) (string, error) {
	tool, ok := r.Find(name)
	if !ok {
		return "", &ErrToolNotFound{ToolName: name}
	}

	out, err := tool.Function(input)
	if err != nil {
		return "", &ErrToolExecution{ToolName: name, Err: err}
	}
	return out, nil
}

// ErrToolExecution indicates an error occurred while executing a tool
type ErrToolExecution struct {
	ToolName string
	Err      error
}

func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool execution error (%s): %v", e.ToolName, e.Err)
}

func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrToolNotFound indicates a requested tool does not exist
type ErrToolNotFound struct {
	ToolName string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool not found: %s", e.ToolName)
}
