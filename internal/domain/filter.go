package domain

import "strings"

// Predicate is a small typed expression over named fields, rendered to the
// vector store's SQL-style filter syntax. Building conditions through typed
// nodes keeps literal quoting in one place and rules out malformed
// hand-concatenated filters.
type Predicate struct {
	conditions []condition
}

type condition struct {
	field string
	op    string
	value string
}

// NewPredicate returns an empty predicate.
func NewPredicate() *Predicate {
	return &Predicate{}
}

// Eq appends an equality condition on field.
func (p *Predicate) Eq(field, value string) *Predicate {
	return p.append(field, "=", value)
}

// Gte appends an inclusive lower bound on field.
func (p *Predicate) Gte(field, value string) *Predicate {
	return p.append(field, ">=", value)
}

// Lte appends an inclusive upper bound on field.
func (p *Predicate) Lte(field, value string) *Predicate {
	return p.append(field, "<=", value)
}

func (p *Predicate) append(field, op, value string) *Predicate {
	p.conditions = append(p.conditions, condition{field: field, op: op, value: value})
	return p
}

// Len returns the number of conditions.
func (p *Predicate) Len() int {
	return len(p.conditions)
}

// String renders the conditions AND-joined in insertion order. Values are
// emitted as single-quoted literals with embedded quotes doubled. An empty
// predicate renders as the empty string.
func (p *Predicate) String() string {
	if len(p.conditions) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range p.conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c.field)
		sb.WriteByte(' ')
		sb.WriteString(c.op)
		sb.WriteString(" '")
		sb.WriteString(strings.ReplaceAll(c.value, "'", "''"))
		sb.WriteByte('\'')
	}
	return sb.String()
}
