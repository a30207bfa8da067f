package guardian

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/kindred/core/llm"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) GenerateText(ctx context.Context, systemPrompt, prompt string, opts llm.Options) (string, error) {
	return f.response, f.err
}

func TestScanContentCleanVerdict(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{
		response: `{"risk_level": "LOW", "concerns": [], "blocked": false, "suggestions": [], "detected_items": {}}`,
	}})

	report := agent.ScanContent(context.Background(), "Finished a tough week of experiments.")

	assert.Equal(t, RiskLow, report.RiskLevel)
	assert.False(t, report.Blocked)
	assert.Empty(t, report.Concerns)
}

func TestScanContentHighRiskBlocks(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{
		response: `{"risk_level": "HIGH", "concerns": ["Names a specific antibody"], "blocked": true, "suggestions": ["Generalize the reagent"], "detected_items": {"reagent_names": ["AB-1234"]}}`,
	}})

	report := agent.ScanContent(context.Background(), "Our antibody AB-1234 finally worked.")

	assert.Equal(t, RiskHigh, report.RiskLevel)
	assert.True(t, report.Blocked)
	require.NotEmpty(t, report.Concerns)
	assert.Equal(t, "Detected reagent name(s): AB-1234", report.Concerns[0])
	assert.Contains(t, report.Concerns, "Names a specific antibody")
	assert.Equal(t, []string{"Generalize the reagent"}, report.Suggestions)
}

func TestScanContentBlockedTracksRiskLevel(t *testing.T) {
	// model says blocked but grades MEDIUM; blocked must follow the grade
	agent := New(Config{LLM: &fakeLLM{
		response: `{"risk_level": "MEDIUM", "concerns": ["vague"], "blocked": true, "suggestions": []}`,
	}})

	report := agent.ScanContent(context.Background(), "some content here")

	assert.Equal(t, RiskMedium, report.RiskLevel)
	assert.False(t, report.Blocked)
}

func TestScanContentHighRiskDefaultSuggestion(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{
		response: `{"risk_level": "HIGH", "concerns": ["leaky"], "suggestions": []}`,
	}})

	report := agent.ScanContent(context.Background(), "content")

	assert.True(t, report.Blocked)
	assert.Equal(t, []string{"Remove specific reagent names, sequences, or institution identifiers"}, report.Suggestions)
}

func TestScanContentHeuristicsFillEmptyVerdict(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{response: "Risk looks HIGH to me."}})

	content := "Professor Smith at University Stanford used antibody AB-42 and antibody AB-42 again."
	report := agent.ScanContent(context.Background(), content)

	assert.Equal(t, RiskHigh, report.RiskLevel)
	assert.True(t, report.Blocked)

	require.Len(t, report.Concerns, 3)
	assert.Equal(t, "Detected institution name(s): Stanford", report.Concerns[0])
	assert.Equal(t, "Detected reagent name(s): AB-42", report.Concerns[1])
	assert.Equal(t, "Detected PI name(s): Smith", report.Concerns[2])
}

func TestScanContentMentionsConcernWithoutDetections(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{response: "There is a minor issue with specificity. MEDIUM."}})

	report := agent.ScanContent(context.Background(), "nothing identifiable here")

	assert.Equal(t, RiskMedium, report.RiskLevel)
	assert.Equal(t, []string{"Potential IP-sensitive content detected"}, report.Concerns)
	assert.False(t, report.Blocked)
}

func TestScanContentModelFailure(t *testing.T) {
	agent := New(Config{LLM: &fakeLLM{err: errors.New("timeout")}})

	report := agent.ScanContent(context.Background(), "anything")

	assert.Equal(t, RiskMedium, report.RiskLevel)
	assert.False(t, report.Blocked)
	assert.Equal(t, []string{FallbackConcern}, report.Concerns)
	assert.Equal(t, []string{FallbackSuggestion}, report.Suggestions)
}

func TestExtractRiskObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		out := extractRiskObject(`{"risk_level": "LOW"}`)
		assert.Equal(t, `{"risk_level": "LOW"}`, out)
	})

	t.Run("object with prose around it", func(t *testing.T) {
		out := extractRiskObject(`Sure! {"risk_level": "HIGH", "nested": {"a": 1}} done`)
		assert.Equal(t, `{"risk_level": "HIGH", "nested": {"a": 1}}`, out)
	})

	t.Run("skips objects without risk_level", func(t *testing.T) {
		out := extractRiskObject(`{"other": 1} {"risk_level": "LOW"}`)
		assert.Equal(t, `{"risk_level": "LOW"}`, out)
	})

	t.Run("no object", func(t *testing.T) {
		assert.Equal(t, "", extractRiskObject("no json here"))
	})

	t.Run("unbalanced braces", func(t *testing.T) {
		assert.Equal(t, "", extractRiskObject(`{"risk_level": "LOW"`))
	})
}
