package matchmaker

import (
	"fmt"
	"strings"

	"github.com/adalundhe/kindred/core/vectorstore"
)

// formatSuggestion turns up to three matches into a warm connection
// suggestion. The phrasing escalates with the number of peers found.
func (a *Agent) formatSuggestion(matches []vectorstore.MatchResult) string {
	if len(matches) == 0 {
		return ""
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}

	descriptions := make([]string, 0, len(matches))
	for _, match := range matches {
		reason := strings.ToLower(match.MatchReason)
		if profile, ok := a.store.Get(match.ProfileID); ok && profile.AcademicStage != "" {
			descriptions = append(descriptions, fmt.Sprintf("a %s researcher who %s", profile.AcademicStage, reason))
		} else {
			descriptions = append(descriptions, fmt.Sprintf("a researcher who %s", reason))
		}
	}

	var found string
	switch len(descriptions) {
	case 1:
		found = fmt.Sprintf("I found %s. There's something powerful about knowing someone else has walked this path.", descriptions[0])
	case 2:
		found = fmt.Sprintf("I found %s and %s. You know what? There's something healing about connecting with others who understand exactly what you're going through.", descriptions[0], descriptions[1])
	default:
		found = fmt.Sprintf("I found %s, %s, and %s. You're not the only one who's felt this way, and there's real power in that connection.", descriptions[0], descriptions[1], descriptions[2])
	}

	return "\n\n" + strings.Join([]string{openingLine, found, closingLine}, " ")
}
