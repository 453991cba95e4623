package tools

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeProviderToolDefinition defines the time_provider tool
var TimeProviderToolDefinition = ToolDefinition{
	Name:        "time_provider",
	Description: "Get the current system time. Returns the current time in ISO 8601 format unless a Go layout is given.",
	InputSchema: TimeProviderInputSchema,
	Function:    GetTime,
}

// TimeProviderInput defines the input parameters for the time_provider tool
type TimeProviderInput struct {
	Format string `json:"format,omitempty" jsonschema_description:"Optional Go time layout. If not provided, ISO 8601 format will be used."`
}

// TimeProviderInputSchema is the JSON schema for the time_provider tool
var TimeProviderInputSchema = GenerateSchema[TimeProviderInput]()

var now = time.Now

// GetTime implements the time_provider tool functionality
func GetTime(input json.RawMessage) (string, error) {
	in := TimeProviderInput{}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &in); err != nil {
			return "", fmt.Errorf("failed to parse tool input: %w", err)
		}
	}

	layout := time.RFC3339
	if in.Format != "" {
		layout = in.Format
	}

	return now().Format(layout), nil
}
