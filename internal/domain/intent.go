package domain

import "time"

// Category classifies what a user question is asking for.
type Category string

const (
	// CategoryTransactional covers questions about concrete amounts and movements.
	CategoryTransactional Category = "transactional"
	// CategoryInsight covers questions about the overall financial picture.
	CategoryInsight Category = "insight"
	// CategoryEducational covers concept and definition questions.
	CategoryEducational Category = "educational"
)

// ParseCategory maps a raw string onto a known category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryTransactional, CategoryInsight, CategoryEducational:
		return Category(s), true
	}
	return "", false
}

// Intent is the structured classification of a user question. It is created
// once per request by the classifier and never mutated afterwards.
type Intent struct {
	Category             Category
	HasTemporalReference bool
	// TemporalPhrase holds the raw phrase ("last month") when one was
	// isolated. It may be empty even when HasTemporalReference is true; it is
	// never set when HasTemporalReference is false.
	TemporalPhrase string
	Keywords       []string
}

// DateRange is an inclusive calendar range. The zero value means the phrase
// could not be resolved.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unresolved.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}
