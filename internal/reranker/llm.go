package reranker

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"industry-rag/internal/config"
	"industry-rag/internal/llmservice"
	"industry-rag/internal/models"
)

// local reasoning models wrap their chain of thought in think tags
var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// LLMReranker scores each passage with a chat completion instead of a
// dedicated cross-encoder. Slower, but works against any configured endpoint.
type LLMReranker struct {
	llmConfig *config.LLMConfig
}

func NewLLMReranker(llmConfig *config.LLMConfig) *LLMReranker {
	return &LLMReranker{llmConfig: llmConfig}
}

// Score returns one relevance score per input passage, in input order.
func (r *LLMReranker) Score(ctx context.Context, query string, passages []string) ([]models.ScoredPassage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	scored := make([]models.ScoredPassage, len(passages))
	for i, passage := range passages {
		prompt := fmt.Sprintf(models.RerankPromptTemplate, query, passage)
		msgContent := []llms.MessageContent{
			{
				Role:  llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
			},
		}

		res, err := llmservice.GenerateContent(ctx, r.llmConfig, nil, msgContent)
		if err != nil {
			return nil, fmt.Errorf("failed to score passage: %v", err)
		}
		if len(res.Choices) == 0 {
			return nil, fmt.Errorf("scoring returned no choices")
		}

		answer := thinkTagRe.ReplaceAllString(res.Choices[0].Content, "")
		score, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse score %q: %v", answer, err)
		}
		scored[i] = models.ScoredPassage{Text: passage, Score: score}
	}
	return scored, nil
}
