// Package intent classifies user messages so the orchestrator can pick
// an agent. Classification is model-first with a deterministic keyword
// override layer, and degrades to keyword-only routing when the model
// is unreachable.
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Intent labels a user message.
type Intent string

const (
	IntentEmotional Intent = "emotional"
	IntentTechnical Intent = "technical"
	IntentPositive  Intent = "positive"
	IntentGrant     Intent = "grant"
	IntentShareable Intent = "shareable"
)

// AgentMode names the agent a message should be routed to.
type AgentMode string

const (
	ModeVent       AgentMode = "vent"
	ModeMatchmaker AgentMode = "matchmaker"
	ModeScribe     AgentMode = "scribe"
	ModePI         AgentMode = "pi"
	ModeAuto       AgentMode = "auto"
)

// Result holds a classification outcome.
type Result struct {
	Intent      Intent
	Confidence  string
	RawResponse string
}

const classifyPrompt = `Analyze this message and classify its intent. Consider:
1. Is this an emotional struggle or venting?
2. Is this a technical/academic discussion?
3. Is this a positive achievement or something to share?
4. Is this asking for grant/research feedback?

Message: "%s"

Respond with ONLY one of these labels:
- "emotional": User is venting, struggling, or needs emotional support
- "technical": Technical discussion, asking questions, sharing knowledge
- "positive": Positive achievements, acceptance news, milestones
- "grant": Asking for grant/proposal feedback or mentorship
- "shareable": Contains insights or news that should be shared publicly

Label:`

var (
	grantKeywords     = []string{"grant proposal", "grant", "proposal", "research plan", "feedback on", "review my", "critique", "mentorship", "mentor"}
	shareableKeywords = []string{"post", "draft", "help me draft", "create a post", "write a post", "shareable", "public", "linkedin", "social media", "announce", "acceptance", "published", "share my", "share the", "news"}
	technicalKeywords = []string{"semantic", "search", "debug", "agentic", "system", "code", "implementation", "algorithm", "method", "technique"}
	positiveKeywords  = []string{"swim", "talked", "discussed", "learned", "excited", "happy", "great", "good"}
	emotionalKeywords = []string{"struggling", "failed", "frustrated", "anxious", "worried", "stressed", "difficult", "hard"}
)

// TextGenerator is the slice of the llm client the classifier needs.
type TextGenerator interface {
	ClassifyText(ctx context.Context, prompt string) (string, error)
}

// Config holds classifier construction settings.
type Config struct {
	Generator TextGenerator
	Logger    *slog.Logger
}

// Classifier routes user messages to intent labels.
type Classifier struct {
	generator TextGenerator
	logger    *slog.Logger
}

func NewClassifier(config Config) *Classifier {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Classifier{
		generator: config.Generator,
		logger:    config.Logger,
	}
}

// Classify labels a message. The model's label is normalized by
// substring, then keyword overrides apply in priority order: grant,
// shareable, technical, positive. Technical and positive never override
// when the message also carries emotional keywords.
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	prompt := fmt.Sprintf(classifyPrompt, message)

	response, err := c.generator.ClassifyText(ctx, prompt)
	if err != nil {
		c.logger.Error("intent classification failed, using keyword fallback", "error", err)
		return keywordFallback(message)
	}

	label := normalizeLabel(response)
	label = applyKeywordOverrides(message, label)

	return Result{
		Intent:      label,
		Confidence:  "high",
		RawResponse: response,
	}
}

// normalizeLabel maps free-form model output onto an intent by
// substring, defaulting to emotional.
func normalizeLabel(response string) Intent {
	lower := strings.ToLower(strings.TrimSpace(response))

	switch {
	case strings.Contains(lower, "technical"):
		return IntentTechnical
	case strings.Contains(lower, "positive"), strings.Contains(lower, "neutral"):
		return IntentPositive
	case strings.Contains(lower, "grant"), strings.Contains(lower, "proposal"):
		return IntentGrant
	case strings.Contains(lower, "shareable"):
		return IntentShareable
	}
	return IntentEmotional
}

func applyKeywordOverrides(message string, label Intent) Intent {
	lower := strings.ToLower(message)

	hasEmotional := containsAny(lower, emotionalKeywords)

	switch {
	case containsAny(lower, grantKeywords):
		return IntentGrant
	case containsAny(lower, shareableKeywords):
		return IntentShareable
	case containsAny(lower, technicalKeywords) && !hasEmotional:
		return IntentTechnical
	case containsAny(lower, positiveKeywords) && !hasEmotional:
		return IntentPositive
	}
	return label
}

// keywordFallback routes without the model: obvious emotional keywords
// win, everything else is treated as technical. Confidence is low
// either way.
func keywordFallback(message string) Result {
	lower := strings.ToLower(message)

	for _, kw := range []string{"struggling", "failed", "frustrated", "anxious", "worried"} {
		if strings.Contains(lower, kw) {
			return Result{Intent: IntentEmotional, Confidence: "low"}
		}
	}
	return Result{Intent: IntentTechnical, Confidence: "low"}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ShouldMatchPeers reports whether the intent warrants a peer-matching
// pass. Only emotional struggles qualify.
func ShouldMatchPeers(intent Intent) bool {
	return intent == IntentEmotional
}

// AgentModeFor maps an intent to the agent that should handle it.
func AgentModeFor(intent Intent) AgentMode {
	switch intent {
	case IntentEmotional:
		return ModeVent
	case IntentTechnical, IntentGrant:
		return ModePI
	case IntentPositive, IntentShareable:
		return ModeScribe
	}
	return ModeVent
}
