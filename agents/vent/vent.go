// Package vent implements the emotional support agent. Every reply
// carries a structured emotional analysis alongside the empathetic
// response text.
package vent

import (
	"context"
	"log/slog"

	"github.com/adalundhe/kindred/core/llm"
)

// FallbackText is returned when structured generation fails.
const FallbackText = "I'm here to listen. Could you tell me more about what you're experiencing?"

type structuredGenerator interface {
	GenerateStructured(ctx context.Context, systemPrompt string, messages []llm.Message, schema map[string]any, out any, opts llm.Options) error
}

// Config holds vent agent construction settings.
type Config struct {
	LLM    structuredGenerator
	Logger *slog.Logger
}

// Agent is the vent validator.
type Agent struct {
	llm    structuredGenerator
	logger *slog.Logger
}

func New(config Config) *Agent {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Agent{
		llm:    config.LLM,
		logger: config.Logger,
	}
}

func (a *Agent) Name() string {
	return "Vent Validator"
}

// Process generates an empathetic response with emotional analysis.
// history is the recent conversation, oldest first; message is the new
// user turn.
func (a *Agent) Process(ctx context.Context, message string, history []llm.Message) (*Response, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	var response Response
	err := a.llm.GenerateStructured(ctx, systemPrompt, messages, responseSchema, &response, llm.Options{
		Tier:        llm.TierFlash,
		Temperature: llm.Ptr(0.7),
	})
	if err != nil {
		a.logger.Error("vent generation failed", "error", err)
		return nil, err
	}

	return &response, nil
}
