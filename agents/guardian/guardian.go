// Package guardian implements the IP safety layer. Every piece of
// content headed for public sharing passes through ScanContent, which
// grades risk, explains its concerns, and blocks HIGH-risk drafts.
package guardian

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/adalundhe/kindred/core/llm"
)

// FallbackConcern and FallbackSuggestion are reported when the scan
// itself fails. The report stays non-blocking so a model outage never
// silently suppresses user content.
const (
	FallbackConcern    = "Error during scan"
	FallbackSuggestion = "Please review content manually"

	blockedSuggestion = "Remove specific reagent names, sequences, or institution identifiers"
)

var (
	piNamePattern      = regexp.MustCompile(`(?i)(?:professor|dr\.|pi)\s+([A-Z][a-z]+)`)
	reagentPattern     = regexp.MustCompile(`(?i)(?:reagent|antibody|compound)\s+([A-Z0-9-]+)`)
	institutionPattern = regexp.MustCompile(`(?i)(?:university|lab|institute)\s+([A-Z][a-z]+)`)
)

type textGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string, opts llm.Options) (string, error)
}

// Config holds Guardian construction settings.
type Config struct {
	LLM    textGenerator
	Logger *slog.Logger
}

// Agent is the Guardian. Scans never return an error; failures degrade
// to a MEDIUM, non-blocking report.
type Agent struct {
	llm    textGenerator
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
	return "The Guardian"
}

type scanPayload struct {
	RiskLevel     string        `json:"risk_level"`
	Concerns      []string      `json:"concerns"`
	Blocked       bool          `json:"blocked"`
	Suggestions   []string      `json:"suggestions"`
	DetectedItems detectedItems `json:"detected_items"`
}

// ScanContent grades content for IP risk. The model's JSON verdict is
// preferred; when it yields no concerns, regex heuristics over the raw
// content fill in detections. Blocked is forced to track HIGH risk.
func (a *Agent) ScanContent(ctx context.Context, content string) Report {
	report := Report{
		RiskLevel:   RiskLow,
		Concerns:    []string{},
		Suggestions: []string{},
	}
	var detected detectedItems

	response, err := a.llm.GenerateText(ctx, systemPrompt,
		fmt.Sprintf(scanPromptTemplate, content),
		llm.Options{Tier: llm.TierPro, Temperature: llm.Ptr(0.3)},
	)
	if err != nil {
		a.logger.Error("guardian scan failed", "error", err)
		return Report{
			RiskLevel:   RiskMedium,
			Concerns:    []string{FallbackConcern},
			Blocked:     false,
			Suggestions: []string{FallbackSuggestion},
		}
	}

	if raw := extractRiskObject(response); raw != "" {
		var parsed scanPayload
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			risk := strings.ToUpper(parsed.RiskLevel)
			if strings.Contains(risk, "HIGH") {
				report.RiskLevel = RiskHigh
			} else if strings.Contains(risk, "MEDIUM") {
				report.RiskLevel = RiskMedium
			}

			if len(parsed.Concerns) > 0 {
				report.Concerns = parsed.Concerns
			}
			if len(parsed.Suggestions) > 0 {
				report.Suggestions = parsed.Suggestions
			}
			detected = parsed.DetectedItems
		} else {
			a.logger.Warn("guardian verdict failed to decode", "error", err)
		}
	}

	if len(report.Concerns) == 0 {
		upper := strings.ToUpper(response)
		if strings.Contains(upper, "HIGH") {
			report.RiskLevel = RiskHigh
		} else if strings.Contains(upper, "MEDIUM") {
			report.RiskLevel = RiskMedium
		}

		if names := dedupe(findCaptures(piNamePattern, content)); len(names) > 0 {
			detected.PINames = names
			report.Concerns = append(report.Concerns, fmt.Sprintf("Detected PI name(s): %s", strings.Join(names, ", ")))
		}
		if names := dedupe(findCaptures(reagentPattern, content)); len(names) > 0 {
			detected.ReagentNames = names
			report.Concerns = append(report.Concerns, fmt.Sprintf("Detected reagent name(s): %s", strings.Join(names, ", ")))
		}
		if names := dedupe(findCaptures(institutionPattern, content)); len(names) > 0 {
			detected.Institutions = names
			report.Concerns = append(report.Concerns, fmt.Sprintf("Detected institution name(s): %s", strings.Join(names, ", ")))
		}

		lower := strings.ToLower(response)
		if len(report.Concerns) == 0 && (strings.Contains(lower, "concern") || strings.Contains(lower, "issue")) {
			report.Concerns = append(report.Concerns, "Potential IP-sensitive content detected")
		}
	}

	report.Concerns = promoteDetection(report.Concerns, "Detected PI name", "Detected PI name(s): %s", detected.PINames)
	report.Concerns = promoteDetection(report.Concerns, "Detected reagent name", "Detected reagent name(s): %s", detected.ReagentNames)
	report.Concerns = promoteDetection(report.Concerns, "Detected institution name", "Detected institution name(s): %s", detected.Institutions)

	report.Blocked = report.RiskLevel == RiskHigh
	if report.Blocked && len(report.Suggestions) == 0 {
		report.Suggestions = append(report.Suggestions, blockedSuggestion)
	}

	return report
}

// extractRiskObject returns the first brace-balanced JSON object in
// text that mentions "risk_level".
func extractRiskObject(text string) string {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}

		end := matchBrace(text, start)
		if end == -1 {
			break
		}

		candidate := text[start : end+1]
		if strings.Contains(candidate, `"risk_level"`) {
			return candidate
		}
		start = end
	}
	return ""
}

func matchBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func findCaptures(pattern *regexp.Regexp, text string) []string {
	var captures []string
	for _, match := range pattern.FindAllStringSubmatch(text, -1) {
		captures = append(captures, match[1])
	}
	return captures
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

// promoteDetection moves a detection category to the front of the
// concern list, replacing any earlier phrasing of the same category.
func promoteDetection(concerns []string, prefix, format string, items []string) []string {
	if len(items) == 0 {
		return concerns
	}

	kept := make([]string, 0, len(concerns)+1)
	kept = append(kept, fmt.Sprintf(format, strings.Join(items, ", ")))
	for _, concern := range concerns {
		if !strings.HasPrefix(concern, prefix) {
			kept = append(kept, concern)
		}
	}
	return kept
}
