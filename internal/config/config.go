package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where LoadConfig looks when no path is given.
const DefaultPath = "config.yaml"

// Supported gateway providers.
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderOffline = "offline"
)

// Config holds the application configuration.
type Config struct {
	Provider       string `yaml:"provider"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`

	RoomWidth  int `yaml:"room_width"`
	RoomHeight int `yaml:"room_height"`

	// Naturalize rewrites the factual layout report into prose before judging.
	Naturalize bool `yaml:"naturalize"`
	// FallbackRequest substitutes a fixed customer when generation keeps failing.
	FallbackRequest bool   `yaml:"fallback_request"`
	RequestRetries  int    `yaml:"request_retries"`
	// Similarity reports request/description embedding similarity next to
	// the score.
	Similarity      bool   `yaml:"similarity"`
	FeedbackMarker  string `yaml:"feedback_marker"`

	CatalogPath  string `yaml:"catalog_path"`
	PersonasPath string `yaml:"personas_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Provider:        ProviderGemini,
		RoomWidth:       10,
		RoomHeight:      8,
		Naturalize:      true,
		FallbackRequest: true,
		RequestRetries:  3,
		FeedbackMarker:  "Translation",
		LogLevel:        "info",
		LogFormat:       "text",
		LogFile:         "game.log",
	}
}

// LoadConfig reads the YAML file at path (if it exists), applies environment
// overrides and validates the result. An empty path means DefaultPath.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults + env only
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString(&c.Provider, "GAME_PROVIDER")
	setString(&c.ChatModel, "GAME_CHAT_MODEL")
	setString(&c.EmbeddingModel, "GAME_EMBED_MODEL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.LogFile, "LOG_FILE")

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderGemini:
		setString(&c.APIKey, "GEMINI_API_KEY")
	case ProviderOpenAI:
		setString(&c.APIKey, "OPENAI_API_KEY")
	case ProviderOllama:
		if v := os.Getenv("OLLAMA_HOST"); v != "" {
			c.BaseURL = OllamaBaseURL(v)
		}
	}
}

// OllamaBaseURL turns an OLLAMA_HOST value ("host:port", optionally with a
// scheme) into the OpenAI-compatible endpoint URL.
func OllamaBaseURL(host string) string {
	u := strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u
}

// Validate reports the first configuration problem, if any.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
	case ProviderOllama:
		if c.BaseURL == "" {
			return fmt.Errorf("provider ollama requires base_url or OLLAMA_HOST")
		}
	case ProviderOffline:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	// Zones use 2-cell margins on every side; anything smaller has no center.
	if c.RoomWidth < 5 || c.RoomHeight < 5 {
		return fmt.Errorf("room must be at least 5x5 cells, got %dx%d", c.RoomWidth, c.RoomHeight)
	}
	if c.RequestRetries < 1 {
		return fmt.Errorf("request_retries must be at least 1, got %d", c.RequestRetries)
	}
	return nil
}
