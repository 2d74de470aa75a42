package usecase

import (
	"fmt"
	"strings"
	"time"

	"finrag-orchestrator/internal/domain"
)

// PromptBuilder composes the system instruction and the contextual user
// message sent to the generative model.
type PromptBuilder interface {
	System(referenceDate time.Time) string
	User(query string, chunks []domain.Chunk) string
}

const chunkDelimiter = "---"

type financePromptBuilder struct {
	additionalInstructions []string
}

// NewPromptBuilder creates a prompt builder with optional extra instructions
// appended to the system message.
func NewPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &financePromptBuilder{additionalInstructions: additionalInstructions}
}

// System renders the behavioral instruction, anchored at the reference date
// so the model's reading of relative time matches the temporal resolver's.
func (b *financePromptBuilder) System(referenceDate time.Time) string {
	var sb strings.Builder
	sb.WriteString("You are a personal-finance assistant. Today's date is ")
	sb.WriteString(referenceDate.Format(domain.DateLayout))
	sb.WriteString(".\n")
	sb.WriteString("Answer using ONLY the records provided in the user message.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Keep answers under 500 characters, in a direct and friendly tone.\n")
	sb.WriteString("- For questions about amounts spent or received, lead with the number.\n")
	sb.WriteString("- For questions about overall financial health, open with the bottom line, then support it.\n")
	sb.WriteString("- For concept questions, give a short summary and offer to elaborate.\n")
	sb.WriteString("- If no records are provided, say you have insufficient information to answer.\n")
	for _, inst := range b.additionalInstructions {
		sb.WriteString("- ")
		sb.WriteString(inst)
		sb.WriteString("\n")
	}
	return sb.String()
}

// User renders the grounding context followed by the question. With zero
// retrieved chunks it degrades to the bare question.
func (b *financePromptBuilder) User(query string, chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return query
	}

	var sb strings.Builder
	sb.WriteString("Financial records:\n")
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString(chunkDelimiter)
			sb.WriteString("\n")
		}
		sb.WriteString("Category: ")
		sb.WriteString(string(chunk.Category))
		sb.WriteString("\nDate: ")
		sb.WriteString(chunk.Date.Format(domain.DateLayout))
		if chunk.Amount != nil {
			sb.WriteString(fmt.Sprintf("\nAmount: %.2f", *chunk.Amount))
		}
		sb.WriteString("\nSource: ")
		sb.WriteString(chunk.Source)
		sb.WriteString("\nText: ")
		sb.WriteString(chunk.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(query)
	return sb.String()
}
