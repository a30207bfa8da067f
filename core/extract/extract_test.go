package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmotionalBlock(t *testing.T) {
	parser := NewParser(nil)

	raw := `I hear you, that sounds exhausting.

[[EMOTIONAL_ANALYSIS]]
{"emotional_spectrum": "frustration", "emotional_intensity": 7}
[[END_EMOTIONAL_ANALYSIS]]`

	result := parser.Parse(raw)

	assert.Equal(t, "I hear you, that sounds exhausting.", result.CleanText)
	assert.Equal(t, "frustration", result.Metadata["emotional_spectrum"])
	assert.Equal(t, float64(7), result.Metadata["emotional_intensity"])
}

func TestParseClarityBlock(t *testing.T) {
	parser := NewParser(nil)

	raw := `[[CLARITY_SCORE]]
{"clarity": 8, "logic": 6, "focus": "methodology"}
[[END_CLARITY_SCORE]]

Your aims are solid but the methods section drifts.`

	result := parser.Parse(raw)

	assert.Equal(t, "Your aims are solid but the methods section drifts.", result.CleanText)
	assert.Equal(t, float64(8), result.Metadata["clarity_score"])
	assert.Equal(t, float64(6), result.Metadata["logic_score"])
	assert.Equal(t, "methodology", result.Metadata["critique_focus"])
}

func TestParseBothBlocks(t *testing.T) {
	parser := NewParser(nil)

	raw := `[[EMOTIONAL_ANALYSIS]]{"emotional_spectrum": "hope"}[[END_EMOTIONAL_ANALYSIS]]
Keep going.
[[CLARITY_SCORE]]{"clarity": 9}[[END_CLARITY_SCORE]]`

	result := parser.Parse(raw)

	assert.Equal(t, "Keep going.", result.CleanText)
	assert.Equal(t, "hope", result.Metadata["emotional_spectrum"])
	assert.Equal(t, float64(9), result.Metadata["clarity_score"])
}

func TestParseFencedPayload(t *testing.T) {
	parser := NewParser(nil)

	raw := "[[CLARITY_SCORE]]```json\n{\"clarity\": 5}\n```[[END_CLARITY_SCORE]] Done."

	result := parser.Parse(raw)
	assert.Equal(t, "Done.", result.CleanText)
	assert.Equal(t, float64(5), result.Metadata["clarity_score"])
}

func TestParseMalformedPayloadStillStripsMarkers(t *testing.T) {
	parser := NewParser(nil)

	raw := `Sounds rough. [[EMOTIONAL_ANALYSIS]] not json at all [[END_EMOTIONAL_ANALYSIS]]`

	result := parser.Parse(raw)
	assert.Equal(t, "Sounds rough.", result.CleanText)
	assert.Empty(t, result.Metadata)
}

func TestParseNoBlocks(t *testing.T) {
	parser := NewParser(nil)

	result := parser.Parse("  just a plain reply  ")
	assert.Equal(t, "just a plain reply", result.CleanText)
	assert.Empty(t, result.Metadata)
}

func TestParseCaseInsensitiveMarkers(t *testing.T) {
	parser := NewParser(nil)

	raw := `[[emotional_analysis]]{"emotional_spectrum": "calm"}[[end_emotional_analysis]] Better now.`

	result := parser.Parse(raw)
	assert.Equal(t, "Better now.", result.CleanText)
	assert.Equal(t, "calm", result.Metadata["emotional_spectrum"])
}
