package models

// SearchResult is one raw document handed to Ingest, either from the search
// provider or from a parsed local file.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Passage is a stored unit of text. ID is the content fingerprint, so two
// passages with identical text collapse into one entry.
type Passage struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// ScoredPassage is a passage text with its rerank relevance score.
type ScoredPassage struct {
	Text  string
	Score float64
}

// Chunk represents a parsed chunk with metadata
type Chunk struct {
	Content    string
	PageNumber int
	ChunkID    int
}
