package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"finrag-orchestrator/internal/domain"
)

// IntentClassifier produces a structured Intent from a free-text question.
type IntentClassifier interface {
	Classify(ctx context.Context, query string, referenceDate time.Time) domain.Intent
}

type llmIntentClassifier struct {
	llm    domain.LLMClient
	logger *slog.Logger
}

// NewIntentClassifier creates a classifier that asks the LLM for a structured
// intent and degrades to the deterministic heuristic on any failure.
func NewIntentClassifier(llm domain.LLMClient, logger *slog.Logger) IntentClassifier {
	return &llmIntentClassifier{llm: llm, logger: logger}
}

const classifierMaxTokens = 300

// intentPayload mirrors the JSON object the classification call is asked for.
type intentPayload struct {
	Category           string   `json:"category"`
	HasTemporalFilter  bool     `json:"hasTemporalFilter"`
	TemporalExpression string   `json:"temporalExpression"`
	Keywords           []string `json:"keywords"`
}

func (c *llmIntentClassifier) Classify(ctx context.Context, query string, referenceDate time.Time) domain.Intent {
	raw, err := c.llm.Generate(ctx, classifierInstruction(referenceDate), query, domain.GenerateOptions{
		Temperature: 0.1,
		MaxTokens:   classifierMaxTokens,
	})
	if err != nil {
		c.logger.Warn("intent_classification_failed",
			slog.String("error", err.Error()))
		return FallbackClassify(query)
	}

	intent, err := parseIntentResponse(raw)
	if err != nil {
		c.logger.Warn("intent_response_rejected",
			slog.String("error", err.Error()))
		return FallbackClassify(query)
	}

	c.logger.Info("intent_classified",
		slog.String("category", string(intent.Category)),
		slog.Bool("temporal", intent.HasTemporalReference))
	return intent
}

func classifierInstruction(referenceDate time.Time) string {
	var sb strings.Builder
	sb.WriteString("You classify personal-finance questions. Today's date is ")
	sb.WriteString(referenceDate.Format(domain.DateLayout))
	sb.WriteString(".\n")
	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"category": "transactional|insight|educational", "hasTemporalFilter": bool, "temporalExpression": "verbatim time phrase if any", "keywords": ["significant", "terms"]}` + "\n")
	sb.WriteString("transactional = amounts spent/received/owed; insight = overall financial picture; educational = concepts and definitions.\n")
	sb.WriteString("Set temporalExpression only when hasTemporalFilter is true.")
	return sb.String()
}

// parseIntentResponse isolates the first balanced JSON object in the model
// output, then validates it against the intent schema. Partially matched
// structures are rejected rather than trusted.
func parseIntentResponse(raw string) (domain.Intent, error) {
	obj, ok := extractJSONObject(raw)
	if !ok {
		return domain.Intent{}, fmt.Errorf("no JSON object in response")
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return domain.Intent{}, fmt.Errorf("failed to parse intent: %w", err)
	}

	category, ok := domain.ParseCategory(payload.Category)
	if !ok {
		return domain.Intent{}, fmt.Errorf("unknown category %q", payload.Category)
	}

	phrase := strings.TrimSpace(payload.TemporalExpression)
	if !payload.HasTemporalFilter {
		phrase = ""
	}

	return domain.Intent{
		Category:             category,
		HasTemporalReference: payload.HasTemporalFilter,
		TemporalPhrase:       phrase,
		Keywords:             payload.Keywords,
	}, nil
}

// extractJSONObject returns the first balanced {...} substring, tracking
// string literals and escapes so braces inside values do not unbalance it.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

var (
	transactionalCues = []string{"how much", "spent", "received", "will pay"}
	insightCues       = []string{"summary", "financial health", "how is"}

	temporalWordPattern = regexp.MustCompile(`\b(month|months|week|weeks|day|days|year|years|today|yesterday|last|previous|current|recent)\b`)
	lastDaysPhrase      = regexp.MustCompile(`last \d+ days?`)
)

// explicit sub-patterns tried, in order, to isolate the temporal phrase
var temporalPhrases = []string{"last month", "previous month", "this month", "current month", "last week"}

// FallbackClassify is the deterministic offline classifier. Identical input
// always yields an identical Intent; it never fails.
func FallbackClassify(query string) domain.Intent {
	lower := strings.ToLower(query)

	category := HeuristicCategory(query)

	intent := domain.Intent{Category: category}

	if temporalWordPattern.MatchString(lower) {
		intent.HasTemporalReference = true
		for _, phrase := range temporalPhrases {
			if strings.Contains(lower, phrase) {
				intent.TemporalPhrase = phrase
				break
			}
		}
		if intent.TemporalPhrase == "" {
			if m := lastDaysPhrase.FindString(lower); m != "" {
				intent.TemporalPhrase = m
			}
		}
	}

	for _, token := range strings.Fields(lower) {
		if len([]rune(token)) > 3 {
			intent.Keywords = append(intent.Keywords, token)
		}
	}

	return intent
}

// HeuristicCategory picks a category from cue-word membership alone. The
// answer trimmer reuses it to derive length bounds from the original question
// text, independently of the classified category.
func HeuristicCategory(query string) domain.Category {
	lower := strings.ToLower(query)
	for _, cue := range transactionalCues {
		if strings.Contains(lower, cue) {
			return domain.CategoryTransactional
		}
	}
	for _, cue := range insightCues {
		if strings.Contains(lower, cue) {
			return domain.CategoryInsight
		}
	}
	return domain.CategoryEducational
}
