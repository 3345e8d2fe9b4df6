// Package completion talks to hosted chat-completion models.
package completion

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("completion_not_configured")
	ErrEmptyResponse = errors.New("completion_empty_response")
	ErrUnavailable   = errors.New("completion_unavailable")
)

type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

//go:generate mockgen -source=provider.go -destination=./mocks/mock_provider.go -package=mocks
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// APIError is a non-2xx answer from the upstream API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("completion api: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("completion api: %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is on the upstream side.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
