package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GoogleConfig holds the settings for the Gemini provider.
type GoogleConfig struct {
	APIKey string

	// FlashModels and ProModels are ordered fallback chains. The first
	// identifier the service accepts wins; unknown identifiers advance
	// the chain.
	FlashModels []string
	ProModels   []string

	Logger *slog.Logger
}

func applyGoogleDefaults(config GoogleConfig) GoogleConfig {
	if len(config.FlashModels) == 0 {
		config.FlashModels = []string{
			"gemini-2.5-flash",
			"gemini-2.0-flash-001",
			"gemini-2.0-flash",
		}
	}
	if len(config.ProModels) == 0 {
		config.ProModels = []string{"gemini-2.5-pro"}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return config
}

// GoogleProvider implements Provider for the Gemini models. It is the
// only provider with native schema-constrained output.
type GoogleProvider struct {
	client *genai.Client
	config GoogleConfig
	logger *slog.Logger
}

func NewGoogleProvider(ctx context.Context, config GoogleConfig) (*GoogleProvider, error) {
	config = applyGoogleDefaults(config)

	if config.APIKey == "" {
		return nil, errors.New("llm: google api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create google client: %w", err)
	}

	return &GoogleProvider{
		client: client,
		config: config,
		logger: config.Logger,
	}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

// Generate walks the tier's model chain, advancing past identifiers the
// service does not recognize.
func (p *GoogleProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	models := p.modelChain(req)

	var lastErr error
	for _, model := range models {
		resp, err := p.generateWithModel(ctx, model, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !isModelNotFound(err) {
			return nil, err
		}

		p.logger.Warn("model unavailable, trying next in chain",
			"model", model,
			"error", err,
		)
	}

	return nil, fmt.Errorf("llm: all google models failed: %w", lastErr)
}

func (p *GoogleProvider) modelChain(req *Request) []string {
	if req.Model != "" {
		return []string{req.Model}
	}
	if req.Tier == TierPro {
		return p.config.ProModels
	}
	return p.config.FlashModels
}

func (p *GoogleProvider) generateWithModel(ctx context.Context, model string, req *Request) (*Response, error) {
	contents := convertGoogleMessages(req.Messages)

	genConfig := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.ResponseSchema != nil {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = convertGoogleSchema(req.ResponseSchema)
	}

	result, err := p.client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("llm: google generate: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, errors.New("llm: google returned empty response")
	}

	return &Response{Content: text, Model: model}, nil
}

func convertGoogleMessages(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return contents
}

// convertGoogleSchema maps a JSON-schema fragment onto the genai schema
// type. Only the fields the agents use are covered: object/string/
// number/integer/boolean/array types, properties, required, items,
// enum, description.
func convertGoogleSchema(schema map[string]any) *genai.Schema {
	out := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		switch t {
		case "object":
			out.Type = genai.TypeObject
		case "string":
			out.Type = genai.TypeString
		case "number":
			out.Type = genai.TypeNumber
		case "integer":
			out.Type = genai.TypeInteger
		case "boolean":
			out.Type = genai.TypeBoolean
		case "array":
			out.Type = genai.TypeArray
		}
	}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}

	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				out.Properties[name] = convertGoogleSchema(sub)
			}
		}
	}

	if required, ok := schema["required"].([]string); ok {
		out.Required = required
	} else if rawRequired, ok := schema["required"].([]any); ok {
		for _, r := range rawRequired {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}

	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = convertGoogleSchema(items)
	}

	if enum, ok := schema["enum"].([]string); ok {
		out.Enum = enum
	} else if rawEnum, ok := schema["enum"].([]any); ok {
		for _, e := range rawEnum {
			if s, ok := e.(string); ok {
				out.Enum = append(out.Enum, s)
			}
		}
	}

	return out
}
