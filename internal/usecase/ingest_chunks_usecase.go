package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finrag-orchestrator/internal/domain"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// IngestChunksUsecase validates, embeds, and stores a batch of finance
// chunks. The batch is atomic: one bad seed or one failed embedding rejects
// the whole batch.
type IngestChunksUsecase interface {
	Execute(ctx context.Context, seeds []domain.ChunkSeed) (int, error)
}

type ingestChunksUsecase struct {
	chunkRepo   domain.ChunkRepository
	txManager   domain.TransactionManager
	encoder     domain.VectorEncoder
	limiter     *rate.Limiter
	parallelism int
	logger      *slog.Logger
}

// NewIngestChunksUsecase creates the ingestion usecase. parallelism bounds
// the concurrent embedding calls; ratePerSec throttles them.
func NewIngestChunksUsecase(
	chunkRepo domain.ChunkRepository,
	txManager domain.TransactionManager,
	encoder domain.VectorEncoder,
	parallelism int,
	ratePerSec float64,
	logger *slog.Logger,
) IngestChunksUsecase {
	if parallelism <= 0 {
		parallelism = 4
	}
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &ingestChunksUsecase{
		chunkRepo:   chunkRepo,
		txManager:   txManager,
		encoder:     encoder,
		limiter:     rate.NewLimiter(limit, 1),
		parallelism: parallelism,
		logger:      logger,
	}
}

func (u *ingestChunksUsecase) Execute(ctx context.Context, seeds []domain.ChunkSeed) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	// Validate the full batch before spending a single embedding call.
	for i, seed := range seeds {
		if err := seed.Validate(); err != nil {
			return 0, fmt.Errorf("chunk %d rejected: %w", i, err)
		}
	}

	start := time.Now()
	embeddings := make([][]float32, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)
	for i, seed := range seeds {
		g.Go(func() error {
			if err := u.limiter.Wait(gctx); err != nil {
				return err
			}
			vectors, err := u.encoder.Encode(gctx, []string{seed.Text})
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}
			if len(vectors) != 1 {
				return fmt.Errorf("failed to embed chunk %d: got %d vectors", i, len(vectors))
			}
			embeddings[i] = vectors[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	now := time.Now()
	chunks := make([]domain.Chunk, len(seeds))
	for i, seed := range seeds {
		category, _ := domain.ParseCategory(seed.Category)
		date, _ := time.Parse(domain.DateLayout, seed.Date)
		chunks[i] = domain.Chunk{
			ID:        uuid.New(),
			Text:      seed.Text,
			Category:  category,
			Date:      date,
			Source:    seed.Source,
			Amount:    seed.Amount,
			Embedding: pgvector.NewVector(embeddings[i]),
			CreatedAt: now,
		}
	}

	err := u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		return u.chunkRepo.BulkInsert(ctx, chunks)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	u.logger.Info("chunks_ingested",
		slog.Int("count", len(chunks)),
		slog.Duration("elapsed", time.Since(start)))
	return len(chunks), nil
}
