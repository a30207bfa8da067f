package vent

// Analysis is the structured read of the user's emotional state that
// accompanies every vent response.
type Analysis struct {
	EmotionalSpectrum  string `json:"emotional_spectrum"`
	EmotionalIntensity int    `json:"emotional_intensity"`
	GroundingTechnique string `json:"grounding_technique"`
}

// Response is the structured output of the vent agent.
type Response struct {
	Analysis     Analysis `json:"analysis"`
	ResponseText string   `json:"response_text"`
}

// responseSchema constrains generation to the Response shape.
var responseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"analysis": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"emotional_spectrum": map[string]any{
					"type":        "string",
					"description": "The primary emotion detected, e.g. 'Happy', 'Exhaustion', 'Anxiety', 'Frustration', 'Overwhelm', 'Stagnation'.",
				},
				"emotional_intensity": map[string]any{
					"type":        "integer",
					"description": "Intensity of the emotion on a scale of 1-10.",
				},
				"grounding_technique": map[string]any{
					"type":        "string",
					"description": "A grounding technique suited to this state, e.g. 'Box Breathing', 'Sensory Awareness'.",
				},
			},
			"required": []string{"emotional_spectrum", "emotional_intensity", "grounding_technique"},
		},
		"response_text": map[string]any{
			"type":        "string",
			"description": "The empathetic, warm response to the user. Succinct, 2-3 sentences.",
		},
	},
	"required": []string{"analysis", "response_text"},
}
