package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finrag-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// AnswerInput carries one question through the pipeline. A zero ReferenceDate
// defaults to the current day.
type AnswerInput struct {
	Query         string
	ReferenceDate time.Time
}

// PipelineResult is the final orchestration output for one request.
type PipelineResult struct {
	AnswerText string
	// ChunksUsed is the ordered sequence of retrieved chunks actually sent to
	// the generative model.
	ChunksUsed []domain.Chunk
	// ResolvedCategory is the category the filter ran with, authoritative
	// even when the classifier's raw output was ambiguous.
	ResolvedCategory domain.Category
	ChunkCount       int
}

// AnswerUsecase is the top-level question-answering pipeline.
type AnswerUsecase interface {
	Execute(ctx context.Context, input AnswerInput) (*PipelineResult, error)
}

type answerUsecase struct {
	classifier IntentClassifier
	encoder    domain.VectorEncoder
	chunkRepo  domain.ChunkRepository
	llmClient  domain.LLMClient
	prompts    PromptBuilder
	topK       int
	maxTokens  int
	logger     *slog.Logger
}

// NewAnswerUsecase wires together the components needed to answer a question.
func NewAnswerUsecase(
	classifier IntentClassifier,
	encoder domain.VectorEncoder,
	chunkRepo domain.ChunkRepository,
	llmClient domain.LLMClient,
	prompts PromptBuilder,
	topK, maxTokens int,
	logger *slog.Logger,
) AnswerUsecase {
	return &answerUsecase{
		classifier: classifier,
		encoder:    encoder,
		chunkRepo:  chunkRepo,
		llmClient:  llmClient,
		prompts:    prompts,
		topK:       topK,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

func (u *answerUsecase) Execute(ctx context.Context, input AnswerInput) (*PipelineResult, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	referenceDate := input.ReferenceDate
	if referenceDate.IsZero() {
		referenceDate = time.Now()
	}
	requestID := uuid.NewString()

	// Classification failures are absorbed inside the classifier; from here
	// on the intent is always valid.
	intent := u.classifier.Classify(ctx, input.Query, referenceDate)
	filter := BuildFilter(intent, referenceDate)

	u.logger.Info("retrieval_filter_built",
		slog.String("request_id", requestID),
		slog.String("category", string(filter.Category)),
		slog.String("predicate", filter.Predicate))

	embeddings, err := u.encoder.Encode(ctx, []string{input.Query})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embedding failed: expected 1 vector, got %d", len(embeddings))
	}

	chunks, err := u.chunkRepo.Search(ctx, embeddings[0], filter.Predicate, u.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	u.logger.Info("chunks_retrieved",
		slog.String("request_id", requestID),
		slog.Int("count", len(chunks)))

	system := u.prompts.System(referenceDate)
	user := u.prompts.User(input.Query, chunks)

	raw, err := u.llmClient.Generate(ctx, system, user, domain.GenerateOptions{
		Temperature: 0.2,
		MaxTokens:   u.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	// A second, intentionally independent category pass over the original
	// question text decides the trim bounds.
	answer := TrimAnswer(strings.TrimSpace(raw), BoundsForQuery(input.Query))

	return &PipelineResult{
		AnswerText:       answer,
		ChunksUsed:       chunks,
		ResolvedCategory: filter.Category,
		ChunkCount:       len(chunks),
	}, nil
}
