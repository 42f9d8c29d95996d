package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"industry-rag/internal/models"
)

func TestRank(t *testing.T) {
	scored := []models.ScoredPassage{
		{Text: "a", Score: 0.2},
		{Text: "b", Score: 0.9},
		{Text: "c", Score: 0.2},
		{Text: "d", Score: 0.5},
	}

	ranked := Rank(scored)

	assert.Equal(t, []models.ScoredPassage{
		{Text: "b", Score: 0.9},
		{Text: "d", Score: 0.5},
		{Text: "a", Score: 0.2},
		{Text: "c", Score: 0.2}, // tied with a, input order kept
	}, ranked)

	// input untouched
	assert.Equal(t, "a", scored[0].Text)
}

func TestBuildContext(t *testing.T) {
	ranked := []models.ScoredPassage{
		{Text: "first", Score: 0.9},
		{Text: "second", Score: 0.5},
		{Text: "third", Score: 0.1},
	}

	tests := []struct {
		name   string
		ranked []models.ScoredPassage
		k      int
		want   string
	}{
		{"no candidates", nil, 3, models.NoContextFound},
		{"zero k", ranked, 0, models.NoContextFound},
		{"k below len", ranked, 2, "first" + models.ContextSeparator + "second"},
		{"k equals len", ranked, 3, "first" + models.ContextSeparator + "second" + models.ContextSeparator + "third"},
		{"k above len", ranked, 10, "first" + models.ContextSeparator + "second" + models.ContextSeparator + "third"},
		{"single", ranked[:1], 5, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildContext(tt.ranked, tt.k))
		})
	}
}
