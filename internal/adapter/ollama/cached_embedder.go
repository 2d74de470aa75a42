package ollama

import (
	"context"
	"fmt"

	"finrag-orchestrator/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEncoder decorates a VectorEncoder with a content-keyed LRU cache.
// Ingestion batches often repeat boilerplate text (statement headers, seed
// fixtures); the cache avoids re-embedding identical inputs. The LRU is
// safe for concurrent use and holds only completed embeddings, so concurrent
// callers never observe partial state.
type CachedEncoder struct {
	inner domain.VectorEncoder
	cache *lru.Cache[string, []float32]
}

// NewCachedEncoder wraps inner with a cache of the given size.
func NewCachedEncoder(inner domain.VectorEncoder, size int) (*CachedEncoder, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &CachedEncoder{inner: inner, cache: cache}, nil
}

func (c *CachedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var misses []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := c.cache.Get(text); ok {
			out[i] = vec
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}

	if len(misses) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Encode(ctx, misses)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(misses) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(misses), len(vectors))
	}

	for j, vec := range vectors {
		out[missIdx[j]] = vec
		c.cache.Add(misses[j], vec)
	}
	return out, nil
}

func (c *CachedEncoder) Version() string {
	return c.inner.Version()
}

var _ domain.VectorEncoder = (*CachedEncoder)(nil)
