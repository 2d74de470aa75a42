package usecase_test

import (
	"strings"
	"testing"

	"finrag-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestBoundsForQuery(t *testing.T) {
	cases := []struct {
		query string
		want  usecase.LengthBounds
	}{
		{"How much did I spend?", usecase.LengthBounds{Min: 0, Max: 140}},
		{"Give me a summary of my finances", usecase.LengthBounds{Min: 250, Max: 500}},
		{"What is CDI?", usecase.LengthBounds{Min: 200, Max: 500}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, usecase.BoundsForQuery(tc.query), "query: %s", tc.query)
	}
}

func TestTrimAnswer_TruncatesAtMax(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := usecase.TrimAnswer(long, usecase.LengthBounds{Min: 0, Max: 140})
	assert.Len(t, got, 140)
}

func TestTrimAnswer_StripsTrailingWhitespaceAfterCut(t *testing.T) {
	answer := strings.Repeat("x", 139) + " padding beyond the limit"
	got := usecase.TrimAnswer(answer, usecase.LengthBounds{Min: 0, Max: 140})
	assert.Equal(t, strings.Repeat("x", 139), got)
}

func TestTrimAnswer_LeavesShortAnswersUnpadded(t *testing.T) {
	got := usecase.TrimAnswer("short", usecase.LengthBounds{Min: 200, Max: 500})
	assert.Equal(t, "short", got)
}

func TestTrimAnswer_CountsRunes(t *testing.T) {
	long := strings.Repeat("é", 150)
	got := usecase.TrimAnswer(long, usecase.LengthBounds{Min: 0, Max: 140})
	assert.Equal(t, 140, len([]rune(got)))
}

func TestTrimAnswer_Idempotent(t *testing.T) {
	bounds := usecase.LengthBounds{Min: 0, Max: 140}
	inputs := []string{
		strings.Repeat("word ", 100),
		"short answer",
		strings.Repeat("x", 140),
		"ends with spaces   ",
	}

	for _, in := range inputs {
		once := usecase.TrimAnswer(in, bounds)
		twice := usecase.TrimAnswer(once, bounds)
		assert.Equal(t, once, twice)
	}
}
