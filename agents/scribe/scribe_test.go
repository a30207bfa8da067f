package scribe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/kindred/agents/guardian"
	"github.com/adalundhe/kindred/core/llm"
)

type fakeLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeLLM) GenerateText(ctx context.Context, systemPrompt, prompt string, opts llm.Options) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

type fakeScanner struct {
	report guardian.Report
}

func (f *fakeScanner) ScanContent(ctx context.Context, content string) guardian.Report {
	return f.report
}

func TestDetectShareableMoment(t *testing.T) {
	agent := New(Config{})

	assert.True(t, agent.DetectShareableMoment("I finally figured out the assay"))
	assert.True(t, agent.DetectShareableMoment("had a real breakthrough today"))
	assert.False(t, agent.DetectShareableMoment("the centrifuge is broken again"))
}

func TestProcessNothingToShare(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{responses: []string{"unused"}}})

	out := agent.Process(context.Background(), "the centrifuge is broken again", nil)
	assert.Equal(t, "", out)
}

func TestProcessExplicitRequest(t *testing.T) {
	model := &fakeLLM{responses: []string{"Thrilled to share a milestone from our work. #ResearchJourney"}}
	scanner := &fakeScanner{report: guardian.Report{
		RiskLevel: guardian.RiskLow,
		Concerns:  []string{},
	}}
	agent := New(Config{LLM: model, Guardian: scanner})

	out := agent.Process(context.Background(), "help me draft a post about my paper", nil)

	assert.Contains(t, out, "**The Scribe has drafted a post for you:**")
	assert.Contains(t, out, "Thrilled to share a milestone")
	assert.Contains(t, out, "Hashtags: #ResearchJourney")
	assert.Contains(t, out, "Would you like to review and share this?")
}

func TestProcessExplicitRequestCarriesGuardianConcerns(t *testing.T) {
	model := &fakeLLM{responses: []string{"A clean reflective post."}}
	scanner := &fakeScanner{report: guardian.Report{
		RiskLevel: guardian.RiskHigh,
		Concerns:  []string{"Detected reagent name(s): AB-42"},
	}}
	agent := New(Config{LLM: model, Guardian: scanner})

	agent.Process(context.Background(), "write a post about the result", nil)

	require.NotEmpty(t, model.prompts)
	assert.Contains(t, model.prompts[0], "The Guardian has identified these sensitive items")
	assert.Contains(t, model.prompts[0], "Detected reagent name(s): AB-42")
}

func TestProcessInsightPath(t *testing.T) {
	model := &fakeLLM{responses: []string{
		"Topic: Perseverance through failed experiments\nMood: hopeful",
		"What months of failed experiments taught me about persistence. #PhDlife",
	}}
	agent := New(Config{LLM: model, Guardian: &fakeScanner{}})

	out := agent.Process(context.Background(), "I finally figured out why the assay kept failing", nil)

	assert.Contains(t, out, "What months of failed experiments taught me")
	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[1], "Perseverance through failed experiments")
	assert.Contains(t, model.prompts[1], "hopeful")
}

func TestExtractInsightDefaults(t *testing.T) {
	model := &fakeLLM{responses: []string{"no structured lines here"}}
	agent := New(Config{LLM: model})

	topic, mood := agent.extractInsight(context.Background(), "text")
	assert.Equal(t, "Research resilience and learning", topic)
	assert.Equal(t, "reflective", mood)
}

func TestExtractInsightModelFailure(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{err: errors.New("down")}})

	topic, mood := agent.extractInsight(context.Background(), "text")
	assert.Equal(t, "Research resilience", topic)
	assert.Equal(t, "reflective", mood)
}

func TestDraftSocialContentFallback(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{err: errors.New("down")}})

	draft := agent.DraftSocialContent(context.Background(), DraftRequest{Topic: "lab resilience"})

	assert.Contains(t, draft.Content, "lab resilience")
	assert.Equal(t, "linkedin", draft.Platform)
	assert.True(t, draft.Sanitized)
	assert.Contains(t, draft.Hashtags, "#PhDlife")
}

func TestDraftSocialContentRegeneratesParaphrase(t *testing.T) {
	raw := "my western blot experiment failed nine times before the buffer change fixed everything"
	model := &fakeLLM{responses: []string{
		// near copy of the input triggers the retry
		"my western blot experiment failed nine times before the buffer change fixed everything truly",
		"Nine attempts, one lesson: persistence in the lab pays off. #ResearchJourney",
	}}
	agent := New(Config{LLM: model})

	draft := agent.DraftSocialContent(context.Background(), DraftRequest{RawText: raw})

	assert.Contains(t, draft.Content, "Nine attempts, one lesson")
	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[1], "You MUST completely rewrite this")
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 1.0, wordOverlap("experiment failed badly", "the experiment failed badly today"))
	assert.Equal(t, 0.0, wordOverlap("experiment failed", "sunshine daisies"))
	assert.Equal(t, 0.0, wordOverlap("", "anything"))

	// stop words are ignored
	assert.Equal(t, 0.0, wordOverlap("the and of", "the and of"))
}

func TestExtractHashtags(t *testing.T) {
	tags := extractHashtags("Growth mindset wins. #PhDlife #ResearchJourney end")
	assert.Equal(t, []string{"#PhDlife", "#ResearchJourney"}, tags)

	assert.Empty(t, extractHashtags("no tags here"))
}

func TestRenderConversationWindow(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "one"},
		{Role: llm.RoleAssistant, Content: "two"},
		{Role: llm.RoleUser, Content: "three"},
		{Role: llm.RoleAssistant, Content: "four"},
		{Role: llm.RoleUser, Content: "five"},
	}

	out := renderConversation(history, "six")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "assistant: two", lines[0])
	assert.Equal(t, "user: six", lines[4])
}
