// Package extract pulls machine-readable marker blocks out of agent
// responses. Agents append blocks like
//
//	[[EMOTIONAL_ANALYSIS]] {"emotional_spectrum": ...} [[END_EMOTIONAL_ANALYSIS]]
//
// to their replies; the parser lifts the payloads into metadata and
// strips the blocks from the text shown to the user.
package extract

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	emotionalBlockPattern = regexp.MustCompile(`(?is)\[\[EMOTIONAL_ANALYSIS\]\](.*?)\[\[END_EMOTIONAL_ANALYSIS\]\]`)
	clarityBlockPattern   = regexp.MustCompile(`(?is)\[\[CLARITY_SCORE\]\](.*?)\[\[END_CLARITY_SCORE\]\]`)
)

// Result is the parsed form of an agent response.
type Result struct {
	CleanText string
	Metadata  map[string]any
}

// Parser extracts marker blocks from raw agent output.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse strips every recognized marker block from response and folds
// the decoded payloads into metadata. Blocks that fail to decode are
// logged and dropped; their markers are still removed from the text.
func (p *Parser) Parse(response string) Result {
	result := Result{
		CleanText: response,
		Metadata:  map[string]any{},
	}

	if match := emotionalBlockPattern.FindStringSubmatch(result.CleanText); match != nil {
		if payload, ok := p.decodePayload(match[1], "emotional_analysis"); ok {
			for key, value := range payload {
				result.Metadata[key] = value
			}
		}
		result.CleanText = emotionalBlockPattern.ReplaceAllString(result.CleanText, "")
	}

	if match := clarityBlockPattern.FindStringSubmatch(result.CleanText); match != nil {
		if payload, ok := p.decodePayload(match[1], "clarity_score"); ok {
			if clarity, exists := payload["clarity"]; exists {
				result.Metadata["clarity_score"] = clarity
			}
			if logic, exists := payload["logic"]; exists {
				result.Metadata["logic_score"] = logic
			}
			if focus, exists := payload["focus"]; exists {
				result.Metadata["critique_focus"] = focus
			}
		}
		result.CleanText = clarityBlockPattern.ReplaceAllString(result.CleanText, "")
	}

	result.CleanText = strings.TrimSpace(result.CleanText)
	return result
}

// decodePayload tolerates code fences and prose around the JSON object.
func (p *Parser) decodePayload(raw, block string) (map[string]any, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		p.logger.Warn("marker block has no JSON object", "block", block)
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		p.logger.Warn("marker block payload failed to decode",
			"block", block,
			"error", err,
		)
		return nil, false
	}

	return payload, true
}
