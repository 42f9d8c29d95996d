package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"industry-rag/internal/config"
	"industry-rag/internal/helper"
	"industry-rag/internal/models"
)

// PassageStore is the content-addressed passage collection behind the engine.
type PassageStore interface {
	// Insert stores the passages and reports how many were not already present.
	Insert(ctx context.Context, passages []models.Passage) (int, error)
	// Query returns up to n passages ordered by similarity descending. n may
	// exceed the collection size, an empty collection yields an empty result.
	Query(ctx context.Context, query string, n int) ([]models.Passage, error)
	// Reset deletes all passages and rebinds a fresh empty collection.
	Reset(ctx context.Context) error
}

// Reranker scores query-passage pairs. Implementations return one score per
// input passage, in input order, or fail the whole call.
type Reranker interface {
	Score(ctx context.Context, query string, passages []string) ([]models.ScoredPassage, error)
}

// Engine is the two-stage retrieval engine: coarse similarity recall over the
// passage store, then fine-grained reranking, then a bounded joined context.
// Its public contract is exactly Ingest, RetrieveContext and Reset.
//
// Calls are synchronous and blocking. The engine assumes a single logical
// writer per collection and serializing a Reset against concurrent calls is
// the caller's concern, as are timeouts and retries.
type Engine struct {
	store    PassageStore
	reranker Reranker
	cfg      *config.RAGConfig
}

// NewEngine wires the process-wide store and reranker into an engine. Both
// are expensive resources meant to be constructed once and reused.
func NewEngine(store PassageStore, reranker Reranker, cfg *config.RAGConfig) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: passage store is required", ErrInitialization)
	}
	if reranker == nil {
		return nil, fmt.Errorf("%w: reranker is required", ErrInitialization)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInitialization)
	}
	return &Engine{store: store, reranker: reranker, cfg: cfg}, nil
}

// Ingest filters out empty documents, fingerprints the rest and inserts them.
// Inserting the same text twice collapses into one stored passage, so a
// failed batch can be retried whole. A batch that is entirely empty is a
// no-op, not an error.
func (e *Engine) Ingest(ctx context.Context, docs []models.SearchResult) (int, error) {
	passages := helper.DedupDocuments(docs)
	if len(passages) == 0 {
		log.Warn().Msg("No non-empty documents to ingest")
		return 0, nil
	}

	batchID, _ := helper.GenerateUUID()
	log.Debug().Str("batch", batchID).Msgf("Ingesting %d passages (%d raw documents)", len(passages), len(docs))

	inserted, err := e.store.Insert(ctx, passages)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIngestion, err)
	}
	log.Info().Str("batch", batchID).Msgf("Added %d passages to the store", inserted)
	return inserted, nil
}

// RetrieveContext recalls a wide candidate pool for the query, reranks it and
// assembles the top-k context. A collection with no matches yields the
// no-results sentinel; a backend failure is never downgraded to it.
func (e *Engine) RetrieveContext(ctx context.Context, query string, topK int) (string, error) {
	if topK <= 0 {
		topK = e.cfg.RerankTopK
	}

	log.Debug().Msgf("Recalling up to %d candidates", e.cfg.RetrieveCount)
	recalled, err := e.store.Query(ctx, query, e.cfg.RetrieveCount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	if len(recalled) == 0 {
		log.Warn().Msg("Recall returned no candidates")
		return models.NoContextFound, nil
	}

	texts := make([]string, len(recalled))
	for i, p := range recalled {
		texts[i] = p.Content
	}

	log.Debug().Msgf("Reranking %d candidates down to %d", len(texts), topK)
	scored, err := e.reranker.Score(ctx, query, texts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	return BuildContext(Rank(scored), topK), nil
}

// Reset clears the collection. After a successful Reset the next
// RetrieveContext returns the sentinel until new data is ingested.
func (e *Engine) Reset(ctx context.Context) error {
	log.Info().Msg("Resetting passage store")
	if err := e.store.Reset(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrReset, err)
	}
	return nil
}
