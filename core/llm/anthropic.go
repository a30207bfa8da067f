package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig holds the settings for the Anthropic fallback
// provider.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

func applyAnthropicDefaults(config AnthropicConfig) AnthropicConfig {
	if config.Model == "" {
		config.Model = "claude-3-5-haiku-latest"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	return config
}

// AnthropicProvider implements Provider for the Claude models.
type AnthropicProvider struct {
	client *anthropic.Client
	config AnthropicConfig
}

func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	config = applyAnthropicDefaults(config)

	if config.APIKey == "" {
		return nil, errors.New("llm: anthropic api key is required")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	return &AnthropicProvider{
		client: &client,
		config: config,
	}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	params := p.buildParams(req)

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llm: anthropic generate: %w", err)
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			builder.WriteString(b.Text)
		}
	}

	text := builder.String()
	if text == "" {
		return nil, errors.New("llm: anthropic returned empty response")
	}

	return &Response{
		Content: text,
		Model:   string(msg.Model),
	}, nil
}

func (p *AnthropicProvider) buildParams(req *Request) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	systemPrompt := req.SystemPrompt
	if req.ResponseSchema != nil {
		systemPrompt = appendSchemaInstruction(systemPrompt, req.ResponseSchema)
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleUser, RoleSystem:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}

	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	return params
}
