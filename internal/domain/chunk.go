package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DateLayout is the canonical calendar-date form used across the pipeline.
const DateLayout = "2006-01-02"

// Chunk is a stored unit of financial text with metadata and its embedding.
// Retrieval treats chunks as immutable values.
type Chunk struct {
	ID       uuid.UUID
	Text     string
	Category Category
	Date     time.Time
	Source   string
	Amount   *float64
	// Distance is the similarity score from vector search, lower is closer.
	// It is only populated on retrieved chunks.
	Distance  float64
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// ChunkSeed is raw ingestion input before validation and embedding.
type ChunkSeed struct {
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Source   string   `json:"source"`
	Amount   *float64 `json:"amount,omitempty"`
}

// Validate checks a seed before it is embedded or inserted. A failing seed
// rejects its whole batch; ingestion never silently skips items.
func (s ChunkSeed) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("text is empty")
	}
	if _, ok := ParseCategory(s.Category); !ok {
		return fmt.Errorf("unknown category %q", s.Category)
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s.Date)
	}
	return nil
}
