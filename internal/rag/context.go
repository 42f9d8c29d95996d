package rag

import (
	"sort"
	"strings"

	"industry-rag/internal/models"
)

// Rank orders candidates by score descending. Equal scores keep their
// relative recall order, float scores legitimately tie.
func Rank(scored []models.ScoredPassage) []models.ScoredPassage {
	ranked := make([]models.ScoredPassage, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// BuildContext joins the first min(k, len(ranked)) texts, best first, with
// the context separator. No candidates yields the no-results sentinel. The
// output is pure text, no scores or sources are embedded.
func BuildContext(ranked []models.ScoredPassage, k int) string {
	if k > len(ranked) {
		k = len(ranked)
	}
	if k <= 0 {
		return models.NoContextFound
	}

	parts := make([]string, k)
	for i := 0; i < k; i++ {
		parts[i] = ranked[i].Text
	}
	return strings.Join(parts, models.ContextSeparator)
}
