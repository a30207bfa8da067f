package orchestrator

import (
	"context"
	"strings"

	"github.com/adalundhe/kindred/core/intent"
)

// emotionalTagPairs maps message keywords to normalized emotional tags.
// Order is fixed so extracted tags are deterministic.
var emotionalTagPairs = []struct {
	keyword string
	tag     string
}{
	{"frustrated", "frustration"},
	{"anxious", "anxiety"},
	{"worried", "anxiety"},
	{"stressed", "stress"},
	{"imposter", "imposter_syndrome"},
	{"alone", "isolation"},
	{"isolated", "isolation"},
	{"rejected", "rejection"},
	{"disappointed", "disappointment"},
	{"overwhelmed", "overwhelm"},
	{"burnout", "burnout"},
	{"toxic", "toxic_environment"},
	{"failed", "failure"},
	{"struggling", "struggle"},
}

var stagePairs = []struct {
	keyword string
	stage   string
}{
	{"1st year", "1st year PhD"},
	{"first year", "1st year PhD"},
	{"2nd year", "2nd year PhD"},
	{"second year", "2nd year PhD"},
	{"3rd year", "3rd year PhD"},
	{"third year", "3rd year PhD"},
	{"4th year", "4th year PhD"},
	{"fourth year", "4th year PhD"},
	{"5th year", "5th year PhD"},
	{"fifth year", "5th year PhD"},
	{"postdoc", "Postdoc"},
	{"post-doc", "Postdoc"},
	{"post doc", "Postdoc"},
}

type struggleMetadata struct {
	academicStage string
	researchArea  string
	emotionalTags []string
}

// extractStruggleMetadata mines the message for emotional tags and an
// academic stage, and reads the research area from session context.
func extractStruggleMetadata(message string, sessionContext map[string]any) struggleMetadata {
	var metadata struggleMetadata
	lower := strings.ToLower(message)

	seen := map[string]bool{}
	for _, pair := range emotionalTagPairs {
		if strings.Contains(lower, pair.keyword) && !seen[pair.tag] {
			seen[pair.tag] = true
			metadata.emotionalTags = append(metadata.emotionalTags, pair.tag)
		}
	}

	for _, pair := range stagePairs {
		if strings.Contains(lower, pair.keyword) {
			metadata.academicStage = pair.stage
			break
		}
	}

	if area, ok := sessionContext["research_area"].(string); ok {
		metadata.researchArea = area
	}

	return metadata
}

// captureStruggle turns an emotional message into an anonymized peer
// profile when capture is enabled. Non-emotional messages without
// struggle indicators are left alone.
func (o *Orchestrator) captureStruggle(ctx context.Context, message string, sessionContext map[string]any, label intent.Intent) {
	if !o.captureUserData || o.store == nil {
		return
	}

	if label != intent.IntentEmotional && !o.matchmaker.IsEmotionalStruggle(message) {
		return
	}

	metadata := extractStruggleMetadata(message, sessionContext)

	profileID := o.store.AddFromSession(ctx, message, "",
		metadata.academicStage,
		metadata.researchArea,
		metadata.emotionalTags,
	)
	if profileID != "" {
		o.logger.Info("captured user struggle", "profile_id", profileID)
	}
}
