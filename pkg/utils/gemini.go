package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// TextGenerator sends a single prompt to a language model and returns the raw
// text of the first candidate. Implementations never retry.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Provider() string
}

// EmbeddingClient turns free text into a vector for similarity search.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

type GenerationSettings struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// GeminiClient implements TextGenerator and EmbeddingClient on top of Google's Gemini API.
type GeminiClient struct {
	client         *genai.Client
	settings       GenerationSettings
	embeddingModel string
}

func NewGeminiClient(ctx context.Context, apiKey string, settings GenerationSettings, embeddingModel string) (*GeminiClient, error) {
	if settings.Model == "" {
		settings.Model = "gemini-2.5-flash"
	}
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:         client,
		settings:       settings,
		embeddingModel: embeddingModel,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.settings.Model)
	model.SetTemperature(c.settings.Temperature)
	model.SetMaxOutputTokens(c.settings.MaxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrUpstreamUnavailable, err)
	}

	text := GeminiResponseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GeminiResponseText concatenates the text parts of the first candidate.
func GeminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func (c *GeminiClient) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return pgvector.Vector{}, fmt.Errorf("gemini embed: empty embedding")
	}
	return pgvector.NewVector(res.Embedding.Values), nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
