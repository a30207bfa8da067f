// Package scribe implements the public bridge agent. It watches
// conversations for shareable moments, drafts professional social
// posts, and leans on the guardian to scrub sensitive detail before
// anything is suggested for publication.
package scribe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/core/llm"
)

// UnavailableText is returned when the scribe has nothing to draft in
// explicit scribe mode.
const UnavailableText = "I'm here to help you craft professional content. Share your thoughts and I'll transform them into shareable stories."

const historyWindow = 5

var explicitRequestKeywords = []string{
	"post", "draft", "help me draft", "create a post",
	"write a post", "shareable", "public", "linkedin", "social media",
	"announce", "acceptance", "published", "share my", "share the", "news",
}

var shareableMomentKeywords = []string{
	"learned", "realized", "understood", "breakthrough",
	"finally worked", "figured out", "resolved", "overcame",
}

type textGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string, opts llm.Options) (string, error)
}

type contentScanner interface {
	ScanContent(ctx context.Context, content string) guardian.Report
}

// Config holds scribe construction settings.
type Config struct {
	LLM      textGenerator
	Guardian contentScanner
	Logger   *slog.Logger
}

// Agent is the scribe.
type Agent struct {
	llm      textGenerator
	guardian contentScanner
	logger   *slog.Logger
}

func New(config Config) *Agent {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Agent{
		llm:      config.LLM,
		guardian: config.Guardian,
		logger:   config.Logger,
	}
}

func (a *Agent) Name() string {
	return "The Scribe"
}

// DetectShareableMoment reports whether the conversation contains an
// insight worth sharing.
func (a *Agent) DetectShareableMoment(conversationText string) bool {
	lower := strings.ToLower(conversationText)
	for _, kw := range shareableMomentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Process drafts a social post when the message explicitly asks for one
// or the recent conversation holds a shareable moment. Returns "" when
// there is nothing to draft.
func (a *Agent) Process(ctx context.Context, message string, history []llm.Message) string {
	lower := strings.ToLower(message)
	explicitRequest := false
	for _, kw := range explicitRequestKeywords {
		if strings.Contains(lower, kw) {
			explicitRequest = true
			break
		}
	}

	conversationText := renderConversation(history, message)

	if !explicitRequest && !a.DetectShareableMoment(conversationText) {
		return ""
	}

	var draft Draft
	if explicitRequest {
		report := a.guardian.ScanContent(ctx, conversationText)
		draft = a.DraftSocialContent(ctx, DraftRequest{
			RawText:  conversationText,
			Platform: "linkedin",
			Findings: &report,
		})
	} else {
		topic, mood := a.extractInsight(ctx, conversationText)
		draft = a.DraftSocialContent(ctx, DraftRequest{
			Topic:    topic,
			Mood:     mood,
			Platform: "linkedin",
		})
	}

	if draft.Content == "" {
		a.logger.Warn("failed to generate draft content")
		return ""
	}

	return fmt.Sprintf(
		"\n\n**The Scribe has drafted a post for you:**\n\n%s\n\nHashtags: %s\n\nWould you like to review and share this?",
		draft.Content,
		strings.Join(draft.Hashtags, " "),
	)
}

// extractInsight pulls the topic and mood out of a conversation,
// falling back to generic reflective defaults.
func (a *Agent) extractInsight(ctx context.Context, conversationText string) (topic, mood string) {
	topic = "Research resilience and learning"
	mood = "reflective"

	response, err := a.llm.GenerateText(ctx, "",
		fmt.Sprintf(insightPromptTemplate, conversationText),
		llm.Options{Tier: llm.TierFlash, Temperature: llm.Ptr(0.5)},
	)
	if err != nil {
		a.logger.Error("insight extraction failed", "error", err)
		return "Research resilience", "reflective"
	}

	for _, line := range strings.Split(response, "\n") {
		if after, ok := strings.CutPrefix(line, "Topic:"); ok {
			if trimmed := strings.TrimSpace(after); trimmed != "" {
				topic = trimmed
			}
		} else if after, ok := strings.CutPrefix(line, "Mood:"); ok {
			if trimmed := strings.TrimSpace(after); trimmed != "" {
				mood = trimmed
			}
		}
	}
	return topic, mood
}

// renderConversation flattens the last few turns plus the new message
// into "role: content" lines.
func renderConversation(history []llm.Message, message string) string {
	turns := make([]llm.Message, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, llm.Message{Role: llm.RoleUser, Content: message})

	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}
