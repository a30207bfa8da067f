// Package pimentor implements the mentorship agent. Replies open with
// a hidden clarity-score marker block that the orchestrator lifts into
// response metadata.
package pimentor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adalundhe/kindred/core/llm"
)

// FallbackText and CritiqueFallbackText are returned when generation
// fails.
const (
	FallbackText         = "I'm here to help with your research questions and grant proposals. What would you like feedback on?"
	CritiqueFallbackText = "I'd be happy to review your grant proposal. Please share the text and I'll provide constructive feedback."
)

type chatGenerator interface {
	Chat(ctx context.Context, systemPrompt string, messages []llm.Message, opts llm.Options) (string, error)
	GenerateText(ctx context.Context, systemPrompt, prompt string, opts llm.Options) (string, error)
}

// Config holds mentor construction settings.
type Config struct {
	LLM    chatGenerator
	Logger *slog.Logger
}

// Agent is the PI mentor.
type Agent struct {
	llm    chatGenerator
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
	return "PI Simulator"
}

// Process answers a research question or proposal in the mentor's
// voice. The raw reply still contains the clarity marker block.
func (a *Agent) Process(ctx context.Context, message string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	response, err := a.llm.Chat(ctx, systemPrompt, messages, llm.Options{
		Tier:        llm.TierPro,
		Temperature: llm.Ptr(0.7),
	})
	if err != nil {
		a.logger.Error("mentor generation failed", "error", err)
		return "", err
	}
	return response, nil
}

// CritiqueGrant reviews a grant proposal. Failures degrade to a canned
// invitation rather than an error.
func (a *Agent) CritiqueGrant(ctx context.Context, grantText string) string {
	response, err := a.llm.GenerateText(ctx, systemPrompt,
		fmt.Sprintf(critiquePromptTemplate, grantText),
		llm.Options{Tier: llm.TierPro, Temperature: llm.Ptr(0.7)},
	)
	if err != nil {
		a.logger.Error("grant critique failed", "error", err)
		return CritiqueFallbackText
	}
	return response
}
