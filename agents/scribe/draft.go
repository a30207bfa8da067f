package scribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/core/llm"
)

// Draft is a sanitized social media post.
type Draft struct {
	Content   string   `json:"content"`
	Platform  string   `json:"platform"`
	Hashtags  []string `json:"hashtags"`
	Sanitized bool     `json:"sanitized"`
}

// DraftRequest describes what to draft. RawText takes precedence over
// Topic/Mood; Findings carries safety-scan concerns that must be
// scrubbed from the rewrite.
type DraftRequest struct {
	Topic    string
	Mood     string
	Platform string
	RawText  string
	Findings *guardian.Report
}

// stopWords are excluded from the rewrite similarity check.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "i": true, "my": true, "me": true, "we": true,
	"our": true, "is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "can": true,
	"could": true, "should": true, "may": true, "might": true, "must": true,
	"this": true, "that": true, "these": true, "those": true,
}

// DraftSocialContent produces a post from raw text or a topic/mood
// pair. Raw-text rewrites that stay too close to the input are
// regenerated once at higher temperature. Failures fall back to a
// canned reflective post so the caller always gets content.
func (a *Agent) DraftSocialContent(ctx context.Context, req DraftRequest) Draft {
	if req.Platform == "" {
		req.Platform = "linkedin"
	}

	content, err := a.generateDraft(ctx, req)
	if err != nil {
		a.logger.Error("social draft generation failed", "error", err)
		return fallbackDraft(req)
	}

	if req.RawText != "" {
		if ratio := wordOverlap(req.RawText, content); ratio > 0.4 {
			a.logger.Warn("draft too similar to input, regenerating", "similarity", ratio)
			retried, err := a.generateRetry(ctx, req)
			if err == nil {
				content = retried
			}
		}
	}

	return Draft{
		Content:   content,
		Platform:  req.Platform,
		Hashtags:  extractHashtags(content),
		Sanitized: true,
	}
}

func (a *Agent) generateDraft(ctx context.Context, req DraftRequest) (string, error) {
	content, err := a.llm.GenerateText(ctx, systemPrompt, buildDraftPrompt(req), llm.Options{
		Tier:        llm.TierPro,
		Temperature: llm.Ptr(0.8),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (a *Agent) generateRetry(ctx context.Context, req DraftRequest) (string, error) {
	content, err := a.llm.GenerateText(ctx, systemPrompt, buildDraftPrompt(req)+rewriteRetryReminder, llm.Options{
		Tier:        llm.TierPro,
		Temperature: llm.Ptr(0.9),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func buildDraftPrompt(req DraftRequest) string {
	if req.RawText != "" {
		return fmt.Sprintf(rewritePromptTemplate, req.Platform, req.RawText, guardianContext(req.Findings))
	}

	length := "300-600 characters"
	if req.Platform == "twitter" {
		length = "280 characters"
	}
	return fmt.Sprintf(topicPromptTemplate, req.Platform, req.Topic, req.Mood, req.Platform, length)
}

func guardianContext(report *guardian.Report) string {
	if report == nil || len(report.Concerns) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("\n\nIMPORTANT - The Guardian has identified these sensitive items that MUST be removed:\n")
	for _, concern := range report.Concerns {
		builder.WriteString("- ")
		builder.WriteString(concern)
		builder.WriteString("\n")
	}
	builder.WriteString("\nEnsure these items are completely removed and the content is rewritten professionally.")
	return builder.String()
}

// wordOverlap measures what share of the input's meaningful words
// survive into the output. High overlap means the model paraphrased
// instead of rewriting.
func wordOverlap(input, output string) float64 {
	inputWords := meaningfulWords(input)
	outputWords := meaningfulWords(output)
	if len(inputWords) == 0 || len(outputWords) == 0 {
		return 0
	}

	overlap := 0
	for word := range inputWords {
		if outputWords[word] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(inputWords))
}

func meaningfulWords(text string) map[string]bool {
	words := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if !stopWords[word] {
			words[word] = true
		}
	}
	return words
}

func extractHashtags(content string) []string {
	var hashtags []string
	for _, word := range strings.Fields(content) {
		if strings.HasPrefix(word, "#") {
			hashtags = append(hashtags, word)
		}
	}
	return hashtags
}

func fallbackDraft(req DraftRequest) Draft {
	var content string
	switch {
	case req.RawText != "":
		content = "Reflecting on the challenges and lessons learned in research. Every iteration teaches us something valuable about methodology, persistence, and resilience. #PhDlife #ResearchJourney #AcademicResilience"
	case req.Topic != "":
		content = fmt.Sprintf("Reflecting on %s - resilience in research is key. #PhDlife #ResearchJourney", req.Topic)
	default:
		content = "Reflecting on the research journey - resilience and persistence are key. #PhDlife #ResearchJourney"
	}

	return Draft{
		Content:   content,
		Platform:  req.Platform,
		Hashtags:  extractHashtags(content),
		Sanitized: true,
	}
}
