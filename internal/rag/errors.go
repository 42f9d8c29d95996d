package rag

import "errors"

// Every engine failure wraps exactly one of these kinds, so callers can tell
// which stage failed instead of catching one opaque error.
var (
	// ErrInitialization: a store or backend failed to bind. Fatal, no retry.
	ErrInitialization = errors.New("rag: initialization failed")
	// ErrIngestion: Insert failed. Retrying the whole batch is safe because
	// insertion is idempotent per fingerprint.
	ErrIngestion = errors.New("rag: ingestion failed")
	// ErrRetrieval: recall or rerank failed. Never a partial context.
	ErrRetrieval = errors.New("rag: retrieval failed")
	// ErrReset: the delete/recreate sequence failed and the collection may be
	// inconsistent. Retry Reset or reinitialize before the next use.
	ErrReset = errors.New("rag: reset failed")
)
