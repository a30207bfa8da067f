package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIConfig holds the settings for the OpenAI fallback provider.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

func applyOpenAIDefaults(config OpenAIConfig) OpenAIConfig {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	return config
}

// OpenAIProvider implements Provider over the Responses API.
type OpenAIProvider struct {
	client *openai.Client
	config OpenAIConfig
}

func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	config = applyOpenAIDefaults(config)

	if config.APIKey == "" {
		return nil, errors.New("llm: openai api key is required")
	}

	client := openai.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	return &OpenAIProvider{
		client: &client,
		config: config,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	params := p.buildResponseParams(req)

	result, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llm: openai generate: %w", err)
	}

	text := result.OutputText()
	if text == "" {
		return nil, errors.New("llm: openai returned empty response")
	}

	return &Response{
		Content: text,
		Model:   string(result.Model),
	}, nil
}

func (p *OpenAIProvider) buildResponseParams(req *Request) responses.ResponseNewParams {
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

	messages := make(responses.ResponseInputParam, 0, len(req.Messages)+1)
	if systemPrompt != "" {
		messages = append(messages, responses.ResponseInputItemParamOfMessage(systemPrompt, responses.EasyInputMessageRoleSystem))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			messages = append(messages, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleSystem))
		case RoleUser:
			messages = append(messages, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleUser))
		case RoleAssistant:
			messages = append(messages, responses.ResponseInputItemParamOfMessage(msg.Content, responses.EasyInputMessageRoleAssistant))
		}
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: messages,
		},
		MaxOutputTokens: openai.Int(int64(maxTokens)),
	}

	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	return params
}
