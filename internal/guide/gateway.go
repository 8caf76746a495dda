package guide

import (
	"context"
	"fmt"
	"strings"

	"athena/internal/llm"
)

// ErrUnavailable reports that no credential is configured; no call is
// attempted in that case.
var ErrUnavailable = fmt.Errorf("model gateway unavailable: no api key configured")

// ProviderError wraps any transport, auth or response failure from the model
// provider. It carries no retry guidance: callers fall back, the gateway never
// retries.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("model provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ClientFactory builds a model client for a given API key. Swapped out for a
// mock in tests.
type ClientFactory func(apiKey string) llm.Client

// Gateway mediates a single model call per invocation. Credential priority is
// session override first, then the process-wide default.
type Gateway struct {
	DefaultKey string
	Model      string
	MaxTokens  int
	NewClient  ClientFactory
}

func NewGateway(defaultKey, model string, maxTokens int) *Gateway {
	return &Gateway{
		DefaultKey: defaultKey,
		Model:      model,
		MaxTokens:  maxTokens,
		NewClient: func(apiKey string) llm.Client {
			return llm.NewAnthropicClient(apiKey)
		},
	}
}

// Complete performs one model call and returns its text. overrideKey, when
// non-empty, takes precedence over the default credential.
func (g *Gateway) Complete(ctx context.Context, overrideKey, system string, messages []llm.Message) (string, error) {
	key := strings.TrimSpace(overrideKey)
	if key == "" {
		key = strings.TrimSpace(g.DefaultKey)
	}
	if key == "" {
		return "", ErrUnavailable
	}

	resp, err := g.NewClient(key).Chat(ctx, llm.ChatRequest{
		Model:     g.Model,
		System:    system,
		Messages:  messages,
		MaxTokens: g.MaxTokens,
	})
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", &ProviderError{Err: fmt.Errorf("empty response")}
	}
	return text, nil
}
