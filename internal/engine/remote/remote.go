// Package remote forwards turns to an agent server over HTTP.
//
// The server is expected to accept POST {base}/api/message with a JSON body
// {"message": "..."} and reply with the agent's text, either as plain text,
// a JSON string, or a JSON object carrying a "text" or "response" field.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agentchat/internal/logger"

	"github.com/google/uuid"
)

// MessagePath is appended to the base URL for every turn.
const MessagePath = "/api/message"

const maxResponseBytes = 1 << 20

// Config holds configuration options for creating a new Engine
type Config struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Engine talks to a remote agent server.
type Engine struct {
	endpoint  string
	client    *http.Client
	sessionID string
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Text     string `json:"text"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// New validates the base URL and returns an Engine.
func New(config Config) (*Engine, error) {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid agent URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("agent URL must use http or https, got %q", config.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("agent URL has no host: %q", config.BaseURL)
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Engine{
		endpoint:  strings.TrimRight(config.BaseURL, "/") + MessagePath,
		client:    client,
		sessionID: uuid.NewString(),
	}, nil
}

// Name identifies the engine in logs and errors.
func (e *Engine) Name() string {
	return "remote"
}

// Respond posts input to the agent server and returns its reply.
func (e *Engine) Respond(ctx context.Context, input string) (string, error) {
	body, err := json.Marshal(messageRequest{Message: input})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("X-Session-ID", e.sessionID)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent server request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read agent server response: %w", err)
	}

	logger.Get().Debug().
		Str("endpoint", e.endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Agent server responded")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		var mr messageResponse
		if json.Unmarshal(data, &mr) == nil && mr.Error != "" {
			msg = mr.Error
		}
		return "", fmt.Errorf("agent server returned %d: %s", resp.StatusCode, msg)
	}

	return decodeReply(data)
}

func decodeReply(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", errors.New("agent server returned an empty reply")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("failed to decode reply: %w", err)
		}
		return s, nil
	case '{':
		var mr messageResponse
		if err := json.Unmarshal(trimmed, &mr); err != nil {
			return "", fmt.Errorf("failed to decode reply: %w", err)
		}
		switch {
		case mr.Text != "":
			return mr.Text, nil
		case mr.Response != "":
			return mr.Response, nil
		case mr.Error != "":
			return "", fmt.Errorf("agent server error: %s", mr.Error)
		}
		return "", errors.New("agent server reply has no text")
	}

	return string(data), nil
}
