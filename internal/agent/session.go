package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"agentchat/internal/engine"
	"agentchat/internal/logger"

	"github.com/google/uuid"
)

// State is the read-loop state.
type State int

const (
	// Running accepts and answers input.
	Running State = iota
	// Terminated no longer reads input.
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Exchange is one input/output pair. It is not retained after display.
type Exchange struct {
	Input  string
	Output string
}

// IsSentinel reports whether input ends the session. Matching ignores case
// and surrounding whitespace.
func IsSentinel(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// SessionConfig holds configuration options for creating a new Session
type SessionConfig struct {
	Responder Responder
	In        io.Reader
	Out       io.Writer
	Labels    Labels

	// GetUserMessage overrides reading lines from In.
	GetUserMessage func() (string, bool)
}

// Session is the interactive read-respond-display loop.
type Session struct {
	id             string
	responder      Responder
	out            io.Writer
	labels         Labels
	getUserMessage func() (string, bool)
	state          State
}

// NewSession creates a Session in the Running state.
func NewSession(config SessionConfig) *Session {
	labels := config.Labels
	if labels == (Labels{}) {
		labels = PlainLabels()
	}

	getUserMessage := config.GetUserMessage
	if getUserMessage == nil {
		getUserMessage = lineReader(config.In)
	}

	out := config.Out
	if out == nil {
		out = io.Discard
	}

	return &Session{
		id:             uuid.NewString(),
		responder:      config.Responder,
		out:            out,
		labels:         labels,
		getUserMessage: getUserMessage,
		state:          Running,
	}
}

// lineReader returns lines from r without a length limit. A final line with
// no trailing newline is still delivered.
func lineReader(r io.Reader) func() (string, bool) {
	if r == nil {
		return func() (string, bool) { return "", false }
	}
	br := bufio.NewReader(r)
	return func() (string, bool) {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", false
		}
		return strings.TrimRight(line, "\r\n"), true
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current loop state.
func (s *Session) State() State {
	return s.state
}

// Run reads and answers turns until a sentinel command, end of input or a
// fatal error. Turn-level engine failures are shown and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	log := logger.Get().With().Str("session", s.id).Logger()
	log.Info().Msg("Session started (type 'exit' or 'quit' to leave)")

	for s.state == Running {
		if err := ctx.Err(); err != nil {
			s.state = Terminated
			return err
		}

		fmt.Fprint(s.out, s.labels.You+": ")
		input, ok := s.getUserMessage()
		if !ok {
			// End of input behaves like a sentinel.
			fmt.Fprintln(s.out)
			s.state = Terminated
			break
		}

		if _, err := s.Turn(ctx, input); err != nil {
			return err
		}
	}

	log.Info().Msg("Session ended")
	return nil
}

// Turn handles a single line of input. It returns a non-nil error only when
// the session cannot continue.
func (s *Session) Turn(ctx context.Context, input string) (Exchange, error) {
	ex := Exchange{Input: input}

	if s.state != Running {
		return ex, nil
	}
	if IsSentinel(input) {
		s.state = Terminated
		return ex, nil
	}
	if strings.TrimSpace(input) == "" {
		return ex, nil
	}
	if s.responder == nil {
		s.state = Terminated
		return ex, engine.ErrEngineUnavailable
	}

	response, err := s.responder.Respond(ctx, input)
	switch {
	case err == nil:
		ex.Output = response
		fmt.Fprintf(s.out, "%s: %s\n", s.labels.Agent, response)
	case errors.Is(err, engine.ErrEngineUnavailable):
		s.state = Terminated
		return ex, err
	default:
		logger.Get().Warn().Err(err).Str("session", s.id).Msg("Turn failed")
		fmt.Fprintf(s.out, "%s: %v\n", s.labels.Error, err)
	}

	return ex, nil
}
