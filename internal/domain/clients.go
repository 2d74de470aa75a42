package domain

import "context"

// VectorEncoder defines the interface for generating embeddings.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}

// GenerateOptions carries per-call decoding settings.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMClient sends a system instruction plus user content to a generative
// model and returns its textual response.
type LLMClient interface {
	Generate(ctx context.Context, systemInstruction, userContent string, opts GenerateOptions) (string, error)
	Version() string
}

// ChunkRepository defines the vector-store operations over finance chunks.
type ChunkRepository interface {
	// Search performs a similarity search pre-filtered by the rendered
	// predicate (empty means no filter), ordered by ascending distance.
	// A store with no backing table yields an empty result, not an error.
	Search(ctx context.Context, queryVector []float32, predicate string, limit int) ([]Chunk, error)

	// BulkInsert inserts validated chunks. Participates in the ambient
	// transaction when one is present on the context.
	BulkInsert(ctx context.Context, chunks []Chunk) error

	// EnsureSchema creates the chunk table and vector index if missing.
	EnsureSchema(ctx context.Context) error
}

// TransactionManager defines the interface for handling database transactions.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
