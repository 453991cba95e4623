package engine

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable is returned when a response is requested from an
// adapter that never acquired an engine.
var ErrEngineUnavailable = errors.New("conversational engine unavailable")

// InitializationError indicates the engine could not be constructed or
// connected at startup.
type InitializationError struct {
	Engine string
	Err    error
}

func (e *InitializationError) Error() string {
	if e.Engine == "" {
		return fmt.Sprintf("engine initialization failed: %v", e.Err)
	}
	return fmt.Sprintf("engine initialization failed (%s): %v", e.Engine, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// EngineError indicates the engine failed to produce a response for a turn.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	if e.Engine == "" {
		return fmt.Sprintf("engine error: %v", e.Err)
	}
	return fmt.Sprintf("engine error (%s): %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsInitialization reports whether err is, or wraps, an InitializationError.
func IsInitialization(err error) bool {
	var ie *InitializationError
	return errors.As(err, &ie)
}
