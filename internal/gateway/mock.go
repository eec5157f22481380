package gateway

import (
	"context"
	"sync"
)

// Call records one Chat invocation made against a Mock.
type Call struct {
	System string
	User   string
}

// Mock is a scripted gateway for tests and local runs. Nil funcs behave like
// an unavailable model.
type Mock struct {
	ChatFunc  func(ctx context.Context, system, user string) (string, error)
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	mu     sync.Mutex
	calls  []Call
	embeds int
}

// Reply returns a Mock answering every chat call with text.
func Reply(text string) *Mock {
	return &Mock{
		ChatFunc: func(context.Context, string, string) (string, error) {
			return text, nil
		},
	}
}

func (m *Mock) Chat(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{System: system, User: user})
	m.mu.Unlock()

	if m.ChatFunc == nil {
		return "", ErrUnavailable
	}
	return m.ChatFunc(ctx, system, user)
}

func (m *Mock) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embeds++
	m.mu.Unlock()

	if m.EmbedFunc == nil {
		return nil, ErrUnavailable
	}
	return m.EmbedFunc(ctx, text)
}

// Calls returns a copy of the recorded chat calls.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// EmbedCount returns how many times Embed was called.
func (m *Mock) EmbedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embeds
}
