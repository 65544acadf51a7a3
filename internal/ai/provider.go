package ai

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the opaque language-model client. Callers pass a context
// with a deadline; no retries happen at this layer.
type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// NewProvider builds a provider from an engine string, e.g.
// "openai:gpt-4o-mini" or "pollinations".
func NewProvider(engine, apiKey string) (Provider, error) {
	name, model, _ := strings.Cut(engine, ":")
	switch name {
	case "openai":
		return NewOpenAIProvider(apiKey, model), nil
	case "pollinations", "":
		return NewPollinationsProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", engine)
	}
}
