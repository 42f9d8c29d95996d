package reranker

import (
	"context"
	"strings"
	"unicode"

	"industry-rag/internal/models"
)

// Lexical scores passages by query term overlap. No model, no network, useful
// as an offline fallback and in tests.
type Lexical struct{}

func NewLexical() *Lexical {
	return &Lexical{}
}

// Score returns one overlap score per input passage, in input order.
func (r *Lexical) Score(ctx context.Context, query string, passages []string) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	queryTerms := terms(query)
	scored := make([]models.ScoredPassage, len(passages))
	for i, passage := range passages {
		scored[i] = models.ScoredPassage{
			Text:  passage,
			Score: overlap(queryTerms, terms(passage)),
		}
	}
	return scored, nil
}

func terms(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(word) >= 2 {
			out[word] = struct{}{}
		}
	}
	return out
}

func overlap(queryTerms, passageTerms map[string]struct{}) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	matches := 0
	for term := range queryTerms {
		if _, ok := passageTerms[term]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTerms))
}
