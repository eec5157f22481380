package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("GAME_PROVIDER", "")
	t.Setenv("OLLAMA_HOST", "")
	path := writeConfig(t, `
provider: ollama
base_url: http://localhost:11434/v1
chat_model: llama3
room_width: 12
room_height: 9
naturalize: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3", cfg.ChatModel)
	assert.Equal(t, 12, cfg.RoomWidth)
	assert.Equal(t, 9, cfg.RoomHeight)
	assert.False(t, cfg.Naturalize)
	// untouched fields keep their defaults
	assert.True(t, cfg.FallbackRequest)
	assert.Equal(t, 3, cfg.RequestRetries)
	assert.Equal(t, "Translation", cfg.FeedbackMarker)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "provider: offline\n")
	t.Setenv("GAME_PROVIDER", "GEMINI")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestOllamaHostOnlyForOllama(t *testing.T) {
	t.Setenv("GAME_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OLLAMA_HOST", "127.0.0.1:11434")

	cfg, err := LoadConfig(writeConfig(t, "provider: openai\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.BaseURL, "OLLAMA_HOST must not redirect other providers")

	cfg, err = LoadConfig(writeConfig(t, "provider: ollama\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:11434/v1", cfg.BaseURL)
}

func TestOllamaBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"localhost:11434", "http://localhost:11434/v1"},
		{"http://gpu-box:11434", "http://gpu-box:11434/v1"},
		{"https://ollama.example.com/", "https://ollama.example.com/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OllamaBaseURL(tt.in), tt.in)
	}
}

func TestLoadConfigMissingKey(t *testing.T) {
	path := writeConfig(t, "provider: gemini\n")
	t.Setenv("GAME_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"offline default room", func(c *Config) { c.Provider = ProviderOffline }, false},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }, true},
		{"room too small", func(c *Config) { c.Provider = ProviderOffline; c.RoomWidth = 4 }, true},
		{"ollama without url", func(c *Config) { c.Provider = ProviderOllama }, true},
		{"zero retries", func(c *Config) { c.Provider = ProviderOffline; c.RequestRetries = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
