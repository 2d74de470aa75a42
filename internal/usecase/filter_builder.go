package usecase

import (
	"time"

	"finrag-orchestrator/internal/domain"
)

// RetrievalFilter is the pre-filter handed to the vector store for one
// request. It is built fresh per request and never persisted.
type RetrievalFilter struct {
	// Predicate is the rendered boolean expression over category and date.
	Predicate string
	// Keywords are copied verbatim from the intent for downstream lexical
	// weighting.
	Keywords []string
	// Category is the resolved category the predicate filters on.
	Category domain.Category
	// DateRange is the resolved temporal bound, zero when none applied.
	DateRange domain.DateRange
}

// BuildFilter combines a classified intent and the reference date into a
// store pre-filter. The category condition is always present; date bounds are
// appended only when the temporal phrase resolves. An unresolvable phrase
// degrades to a category-only filter rather than an error.
func BuildFilter(intent domain.Intent, referenceDate time.Time) RetrievalFilter {
	predicate := domain.NewPredicate().Eq("category", string(intent.Category))

	var resolved domain.DateRange
	if intent.HasTemporalReference && intent.TemporalPhrase != "" {
		resolved = domain.ResolveDateRange(intent.TemporalPhrase, referenceDate)
		if !resolved.IsZero() {
			predicate.Gte("date", resolved.Start.Format(domain.DateLayout))
			predicate.Lte("date", resolved.End.Format(domain.DateLayout))
		}
	}

	keywords := make([]string, len(intent.Keywords))
	copy(keywords, intent.Keywords)

	return RetrievalFilter{
		Predicate: predicate.String(),
		Keywords:  keywords,
		Category:  intent.Category,
		DateRange: resolved,
	}
}
