package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client         *openai.Client
	settings       GenerationSettings
	embeddingModel openai.EmbeddingModel
}

func NewOpenAIClient(apiKey string, settings GenerationSettings, embeddingModel string) *OpenAIClient {
	if settings.Model == "" {
		settings.Model = openai.GPT4oMini
	}
	model := openai.SmallEmbedding3
	if embeddingModel != "" {
		model = openai.EmbeddingModel(embeddingModel)
	}
	return &OpenAIClient{
		client:         openai.NewClient(apiKey),
		settings:       settings,
		embeddingModel: model,
	}
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.settings.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.settings.Temperature,
		MaxTokens:   int(c.settings.MaxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai embed: empty embedding")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
