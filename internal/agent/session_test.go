package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"agentchat/internal/engine"
)

func runSession(t *testing.T, r Responder, input string) (string, *Session, error) {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(SessionConfig{
		Responder: r,
		In:        strings.NewReader(input),
		Out:       &out,
	})
	err := s.Run(context.Background())
	return out.String(), s, err
}

func TestIsSentinel(t *testing.T) {
	for _, in := range []string{"exit", "quit", "Exit", "QUIT", "ExIt", "qUiT", " exit ", "quit\r"} {
		if !IsSentinel(in) {
			t.Errorf("IsSentinel(%q) = false", in)
		}
	}
	for _, in := range []string{"", "exit now", "quitter", "e xit", "bye"} {
		if IsSentinel(in) {
			t.Errorf("IsSentinel(%q) = true", in)
		}
	}
}

func TestSessionHello(t *testing.T) {
	out, s, err := runSession(t, New(newStubEngine()), "Hello\nquit\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "You: Agent: Hi there\nYou: "
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if s.State() != Terminated {
		t.Errorf("state = %v, want terminated", s.State())
	}
}

func TestSessionSentinelSkipsEngine(t *testing.T) {
	for _, word := range []string{"exit", "Exit", "QUIT", "ExIt"} {
		t.Run(word, func(t *testing.T) {
			stub := newStubEngine()
			out, s, err := runSession(t, New(stub), word+"\nHello\n")
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(stub.calls) != 0 {
				t.Errorf("engine called with %v", stub.calls)
			}
			if strings.Contains(out, "Agent:") {
				t.Errorf("unexpected Agent line in %q", out)
			}
			if s.State() != Terminated {
				t.Errorf("state = %v, want terminated", s.State())
			}
		})
	}
}

func TestSessionRecoversFromEngineError(t *testing.T) {
	stub := newStubEngine()
	out, _, err := runSession(t, New(stub), "boom\nHello\nexit\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(lines[0], "Agent error:") || !strings.Contains(lines[0], "engine exploded") {
		t.Errorf("first turn should report the error, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "Agent: Hi there") {
		t.Errorf("second turn should answer normally, got %q", lines[1])
	}
	if got := strings.Join(stub.calls, ","); got != "boom,Hello" {
		t.Errorf("engine calls = %s", got)
	}
}

func TestSessionEngineUnavailableIsFatal(t *testing.T) {
	out, s, err := runSession(t, New(nil), "Hello\nHello\n")
	if !errors.Is(err, engine.ErrEngineUnavailable) {
		t.Fatalf("Run() error = %v, want ErrEngineUnavailable", err)
	}
	if s.State() != Terminated {
		t.Errorf("state = %v, want terminated", s.State())
	}
	if strings.Count(out, "You: ") != 1 {
		t.Errorf("loop should stop after the first turn: %q", out)
	}
}

func TestSessionEndOfInput(t *testing.T) {
	stub := newStubEngine()
	out, s, err := runSession(t, New(stub), "Hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Agent: Hi there\n") {
		t.Errorf("final unterminated line should still be answered: %q", out)
	}
	if s.State() != Terminated {
		t.Errorf("state = %v, want terminated", s.State())
	}
}

func TestSessionSkipsBlankInput(t *testing.T) {
	stub := newStubEngine()
	_, _, err := runSession(t, New(stub), "\n   \nHello\nquit\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(stub.calls, ","); got != "Hello" {
		t.Errorf("engine calls = %q, want only Hello", got)
	}
}

func TestSessionCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(SessionConfig{Responder: New(newStubEngine()), In: strings.NewReader("Hello\n")})
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestTurnAfterTermination(t *testing.T) {
	stub := newStubEngine()
	s := NewSession(SessionConfig{Responder: New(stub)})

	if _, err := s.Turn(context.Background(), "quit"); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	ex, err := s.Turn(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if ex.Output != "" || len(stub.calls) != 0 {
		t.Errorf("terminated session should not reach the engine")
	}
}

func TestGetUserMessageOverride(t *testing.T) {
	lines := []string{"Hello", "exit"}
	var out bytes.Buffer
	s := NewSession(SessionConfig{
		Responder: New(newStubEngine()),
		Out:       &out,
		GetUserMessage: func() (string, bool) {
			if len(lines) == 0 {
				return "", false
			}
			l := lines[0]
			lines = lines[1:]
			return l, true
		},
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Agent: Hi there") {
		t.Errorf("output = %q", out.String())
	}
}
