package usecase

import (
	"strings"

	"finrag-orchestrator/internal/domain"
)

// LengthBounds is the character range targeted for an answer.
type LengthBounds struct {
	Min int
	Max int
}

var boundsByCategory = map[domain.Category]LengthBounds{
	domain.CategoryTransactional: {Min: 0, Max: 140},
	domain.CategoryInsight:       {Min: 250, Max: 500},
	domain.CategoryEducational:   {Min: 200, Max: 500},
}

// BoundsForQuery derives the reply-length target from the original question
// text using the cue-word heuristic. This runs on the raw user text, not the
// classified intent, so trimming stays independent of the classifier path.
func BoundsForQuery(query string) LengthBounds {
	return boundsByCategory[HeuristicCategory(query)]
}

// TrimAnswer cuts an answer down to the bounds' maximum, counting characters,
// and strips trailing whitespace. Under-length answers pass through unchanged;
// padding would mean fabricating content. Trimming is idempotent.
func TrimAnswer(answer string, bounds LengthBounds) string {
	runes := []rune(answer)
	if bounds.Max > 0 && len(runes) > bounds.Max {
		answer = string(runes[:bounds.Max])
	}
	return strings.TrimRight(answer, " \t\n\r")
}
