package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error categories surfaced by providers. Callers dispatch on these with
// errors.Is; the concrete upstream error stays wrapped inside.
var (
	ErrService     = errors.New("llm: service error")
	ErrConnection  = errors.New("llm: connection error")
	ErrRateLimited = errors.New("llm: rate limited")
)

// Client is the narrow surface this application needs from a language-model
// backend: one persona-constrained completion call and one text embedding
// call.
type Client interface {
	Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config carries provider credentials and model overrides. Empty model names
// fall back to per-provider defaults.
type Config struct {
	APIKey     string
	ChatModel  string
	EmbedModel string
}

type Factory func(cfg Config) (Client, error)

var registry = map[string]Factory{}

// Register adds a provider factory under the given name. Called from provider
// init functions.
func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

// New builds the named provider client.
func New(name string, cfg Config) (Client, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("llm provider name is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported llm provider: %s", name)
	}
	return factory(cfg)
}
