package agent

import (
	"context"
	"time"

	"agentchat/internal/engine"
	"agentchat/internal/logger"
)

// Agent adapts a conversational engine to a single request/response call.
type Agent struct {
	engine engine.Engine
	name   string
}

// New creates an Agent around e. A nil engine is accepted; every Respond
// call on such an agent fails with engine.ErrEngineUnavailable.
func New(e engine.Engine) *Agent {
	a := &Agent{engine: e}
	if e != nil {
		a.name = engine.NameOf(e)
	}
	logger.Get().Debug().Str("engine", a.name).Msg("Creating new agent")
	return a
}

// Respond hands input to the engine and returns its reply unmodified.
func (a *Agent) Respond(ctx context.Context, input string) (string, error) {
	if a == nil || a.engine == nil {
		return "", engine.ErrEngineUnavailable
	}

	start := time.Now()
	response, err := a.engine.Respond(ctx, input)
	if err != nil {
		logger.Get().Error().
			Err(err).
			Str("engine", a.name).
			Dur("elapsed", time.Since(start)).
			Msg("Engine failed to respond")
		return "", &engine.EngineError{Engine: a.name, Err: err}
	}

	logger.Get().Debug().
		Str("engine", a.name).
		Int("inputLen", len(input)).
		Int("responseLen", len(response)).
		Dur("elapsed", time.Since(start)).
		Msg("Engine responded")

	return response, nil
}
