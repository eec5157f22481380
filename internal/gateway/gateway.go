// Package gateway abstracts the language model behind two operations, chat
// and embed, so the game can run against Gemini, any OpenAI-compatible server
// (including Ollama) or nothing at all.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/WindyAle/Welcome-to-my/internal/config"
)

var (
	// ErrUnavailable means the model cannot be reached or was never set up.
	ErrUnavailable = errors.New("language model unavailable")
	// ErrEmptyResponse means the model answered with no usable text.
	ErrEmptyResponse = errors.New("language model returned no content")
)

// Gateway is the language model capability consumed by the game.
// Both operations are fallible; callers decide on fallbacks.
type Gateway interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Chat(ctx context.Context, system, user string) (string, error)
}

// Closer is implemented by gateways holding network clients.
type Closer interface {
	Close() error
}

// Default model names per provider.
const (
	defaultGeminiChat    = "gemini-2.5-flash"
	defaultGeminiEmbed   = "text-embedding-004"
	defaultOpenAIChat    = "gpt-4o-mini"
	defaultOpenAIEmbed   = "text-embedding-3-small"
	defaultOllamaChat    = "llama3"
	defaultOllamaEmbed   = "EEVE-Korean-10.8B"
	chatTemperature      = 0.7
	ollamaPlaceholderKey = "ollama"
)

// New builds the gateway selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, orDefault(cfg.ChatModel, defaultGeminiChat), orDefault(cfg.EmbeddingModel, defaultGeminiEmbed))
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, orDefault(cfg.ChatModel, defaultOpenAIChat), orDefault(cfg.EmbeddingModel, defaultOpenAIEmbed))
	case config.ProviderOllama:
		key := cfg.APIKey
		if key == "" {
			key = ollamaPlaceholderKey
		}
		return NewOpenAI(key, cfg.BaseURL, orDefault(cfg.ChatModel, defaultOllamaChat), orDefault(cfg.EmbeddingModel, defaultOllamaEmbed))
	case config.ProviderOffline:
		return Offline{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

// Close releases g's resources when it holds any.
func Close(g Gateway) error {
	if c, ok := g.(Closer); ok {
		return c.Close()
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Offline is a gateway that is never available.
type Offline struct{}

func (Offline) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrUnavailable
}

func (Offline) Chat(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
