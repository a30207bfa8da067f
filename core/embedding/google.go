package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const DefaultModel = "text-embedding-004"

var ErrEmptyText = errors.New("embedding: empty text")

// GoogleConfig holds the settings for the Gemini embedding client.
type GoogleConfig struct {
	APIKey string
	Model  string
	Logger *slog.Logger
}

func applyGoogleDefaults(config GoogleConfig) GoogleConfig {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// GoogleEmbedder generates embeddings through the Gemini API.
type GoogleEmbedder struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGoogleEmbedder creates an embedder backed by the Gemini embedding
// models.
func NewGoogleEmbedder(ctx context.Context, config GoogleConfig) (*GoogleEmbedder, error) {
	config = applyGoogleDefaults(config)

	if config.APIKey == "" {
		return nil, errors.New("embedding: google api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: create client: %w", err)
	}

	return &GoogleEmbedder{
		client: client,
		model:  config.Model,
		logger: config.Logger,
	}, nil
}

// Embed generates a single embedding vector for text.
func (e *GoogleEmbedder) Embed(ctx context.Context, text string, task TaskType) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: string(task),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed content: %w", err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("embedding: no embedding returned")
	}

	return result.Embeddings[0].Values, nil
}
