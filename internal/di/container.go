package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"finrag-orchestrator/internal/adapter/finhttp"
	"finrag-orchestrator/internal/adapter/ollama"
	"finrag-orchestrator/internal/adapter/repository"
	"finrag-orchestrator/internal/domain"
	"finrag-orchestrator/internal/infra/config"
	"finrag-orchestrator/internal/infra/httpclient"
	"finrag-orchestrator/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	ChunkRepo domain.ChunkRepository

	AnswerUsecase usecase.AnswerUsecase
	IngestUsecase usecase.IngestChunksUsecase

	Handler *finhttp.Handler
}

// NewApplicationComponents wires all dependencies from config and the
// database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	chunkRepo := repository.NewChunkRepository(pool, cfg.EmbeddingDim)
	txManager := repository.NewPostgresTransactionManager(pool)

	ollamaHTTP := httpclient.NewPooledClient(time.Duration(cfg.OllamaTimeout) * time.Second)

	embedder := ollama.NewEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, ollamaHTTP)
	cachedEmbedder, err := ollama.NewCachedEncoder(embedder, cfg.EmbedCacheSize)
	if err != nil {
		return nil, err
	}
	generator := ollama.NewGenerator(cfg.OllamaURL, cfg.GenerationModel, ollamaHTTP)

	classifier := usecase.NewIntentClassifier(generator, log)
	prompts := usecase.NewPromptBuilder()

	answerUsecase := usecase.NewAnswerUsecase(
		classifier,
		embedder,
		chunkRepo,
		generator,
		prompts,
		cfg.SearchTopK,
		cfg.AnswerMaxTokens,
		log,
	)

	ingestUsecase := usecase.NewIngestChunksUsecase(
		chunkRepo,
		txManager,
		cachedEmbedder,
		cfg.IngestParallelism,
		cfg.IngestRatePerSec,
		log,
	)

	return &ApplicationComponents{
		ChunkRepo:     chunkRepo,
		AnswerUsecase: answerUsecase,
		IngestUsecase: ingestUsecase,
		Handler:       finhttp.NewHandler(answerUsecase),
	}, nil
}
