package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini talks to Google's Gemini API.
type Gemini struct {
	client     *genai.Client
	chatModel  string
	embedModel string
}

func NewGemini(ctx context.Context, apiKey, chatModel, embedModel string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Gemini{
		client:     client,
		chatModel:  chatModel,
		embedModel: embedModel,
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Chat sends one system+user exchange. A fresh model handle is built per call
// because the system instruction lives on the handle and calls may overlap.
func (g *Gemini) Chat(ctx context.Context, system, user string) (string, error) {
	model := g.client.GenerativeModel(g.chatModel)
	model.SetTemperature(chatTemperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embed: empty text")
	}

	res, err := g.client.EmbeddingModel(g.embedModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return res.Embedding.Values, nil
}
