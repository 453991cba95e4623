package agent

import (
	"context"
)

// Responder is anything that can answer one turn of conversation.
type Responder interface {
	Respond(ctx context.Context, input string) (string, error)
}

// Runner drives an interactive conversation until it ends.
type Runner interface {
	// Run starts the conversation loop
	Run(ctx context.Context) error
}

// Ensure Agent implements Responder and Session implements Runner
var (
	_ Responder = (*Agent)(nil)
	_ Runner    = (*Session)(nil)
)
