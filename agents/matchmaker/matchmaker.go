// Package matchmaker implements the peer connection agent. It searches
// the vector store for researchers with semantically similar struggles
// and frames the results as warm connection suggestions.
package matchmaker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/adalundhe/kindred/core/vectorstore"
)

const (
	matchTopK      = 3
	matchThreshold = 0.7
)

var emotionalKeywords = []string{
	"struggling", "failed", "frustrated", "anxious", "worried",
	"stressed", "difficult", "hard", "imposter", "alone", "isolated",
	"rejected", "disappointed", "overwhelmed", "burnout", "toxic",
}

// MatchData is an enriched peer match handed to callers alongside the
// conversational text.
type MatchData struct {
	ID         string   `json:"id"`
	Similarity float64  `json:"similarity"`
	Reason     string   `json:"reason"`
	Role       string   `json:"role"`
	Area       string   `json:"area"`
	Struggle   string   `json:"struggle"`
	Tags       []string `json:"tags"`
}

// Outcome is the result of a matchmaking pass. Both fields are empty
// when no matching was attempted or nothing cleared the threshold.
type Outcome struct {
	Text    string
	Matches []MatchData
}

// Config holds matchmaker construction settings.
type Config struct {
	Store  *vectorstore.Store
	Logger *slog.Logger
}

// Agent is the semantic matchmaker.
type Agent struct {
	store  *vectorstore.Store
	logger *slog.Logger
}

func New(config Config) *Agent {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Agent{
		store:  config.Store,
		logger: config.Logger,
	}
}

func (a *Agent) Name() string {
	return "Semantic Matchmaker"
}

// IsEmotionalStruggle reports whether a message carries emotional
// struggle indicators.
func (a *Agent) IsEmotionalStruggle(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range emotionalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Process finds peers with similar struggles. Unless forced, messages
// without emotional indicators are skipped.
func (a *Agent) Process(ctx context.Context, message string, force bool) Outcome {
	if !force && !a.IsEmotionalStruggle(message) {
		a.logger.Info("message is not an emotional struggle, skipping peer matching")
		return Outcome{}
	}

	matches := a.store.Search(ctx, message, matchTopK, matchThreshold)
	if len(matches) == 0 {
		return Outcome{}
	}

	return Outcome{
		Text:    a.formatSuggestion(matches),
		Matches: a.enrichMatches(matches),
	}
}

func (a *Agent) enrichMatches(matches []vectorstore.MatchResult) []MatchData {
	enriched := make([]MatchData, 0, len(matches))
	for _, match := range matches {
		profile, ok := a.store.Get(match.ProfileID)
		if !ok {
			continue
		}

		role := profile.AcademicStage
		if role == "" {
			role = "Researcher"
		}
		area := profile.ResearchArea
		if area == "" {
			area = "Unknown Field"
		}

		enriched = append(enriched, MatchData{
			ID:         match.ProfileID,
			Similarity: match.SimilarityScore,
			Reason:     match.MatchReason,
			Role:       role,
			Area:       area,
			Struggle:   profile.StruggleText,
			Tags:       emotionalTags(profile),
		})
	}
	return enriched
}

func emotionalTags(profile vectorstore.PeerProfile) []string {
	raw, ok := profile.AnonymizedMetadata["emotional_tags"]
	if !ok {
		return []string{}
	}

	switch tags := raw.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
