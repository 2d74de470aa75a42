package finhttp

import (
	"net/http"
	"strings"
	"time"

	"finrag-orchestrator/internal/domain"
	"finrag-orchestrator/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Handler exposes the answer pipeline over HTTP.
type Handler struct {
	answerUsecase usecase.AnswerUsecase
}

func NewHandler(answerUsecase usecase.AnswerUsecase) *Handler {
	return &Handler{answerUsecase: answerUsecase}
}

// AskRequest is the payload for POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
	// ReferenceDate optionally pins relative-time interpretation, YYYY-MM-DD.
	ReferenceDate string `json:"referenceDate,omitempty"`
}

// AskResponse is the answer returned to callers.
type AskResponse struct {
	Answer     string      `json:"answer"`
	Category   string      `json:"category"`
	ChunkCount int         `json:"chunkCount"`
	Chunks     []ChunkView `json:"chunks"`
}

// ChunkView is the read-only projection of a retrieved chunk.
type ChunkView struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Source   string   `json:"source"`
	Amount   *float64 `json:"amount,omitempty"`
	Distance float64  `json:"distance"`
}

// Ask answers a personal-finance question.
// (POST /v1/ask)
func (h *Handler) Ask(ctx echo.Context) error {
	var req AskRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	input := usecase.AnswerInput{Query: req.Query}
	if req.ReferenceDate != "" {
		parsed, err := time.Parse(domain.DateLayout, req.ReferenceDate)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "referenceDate must be YYYY-MM-DD"})
		}
		input.ReferenceDate = parsed
	}

	result, err := h.answerUsecase.Execute(ctx.Request().Context(), input)
	if err != nil {
		return ctx.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	chunks := make([]ChunkView, 0, len(result.ChunksUsed))
	for _, c := range result.ChunksUsed {
		chunks = append(chunks, ChunkView{
			ID:       c.ID.String(),
			Text:     c.Text,
			Category: string(c.Category),
			Date:     c.Date.Format(domain.DateLayout),
			Source:   c.Source,
			Amount:   c.Amount,
			Distance: c.Distance,
		})
	}

	return ctx.JSON(http.StatusOK, AskResponse{
		Answer:     result.AnswerText,
		Category:   string(result.ResolvedCategory),
		ChunkCount: result.ChunkCount,
		Chunks:     chunks,
	})
}
