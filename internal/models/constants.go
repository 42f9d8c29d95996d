package models

const (
	// ContextSeparator joins the reranked passage texts into the final context.
	ContextSeparator = "\n\n---\n\n"
	// NoContextFound is the sentinel returned when retrieval yields no candidates.
	NoContextFound = "no relevant background material found"
)

const (
	DefaultRetrieveCount  = 10
	DefaultRerankTopK     = 3
	DefaultCollectionName = "industry_reports"
	DefaultDBPath         = "./chroma_db"
)

var (
	RerankPromptTemplate = `You are a relevance judge. Given a query and a passage, rate how relevant the passage is to the query on a scale from 0.0 (unrelated) to 1.0 (directly answers it).
<query>
%s
</query>
<passage>
%s
</passage>
Answer only with the numeric score and nothing else.
`
)
