package domain

// Metadata is an open mapping of caller-supplied scalar values attached to a
// document. It is opaque to the retrieval core and echoed back verbatim on query.
type Metadata map[string]any

type Document struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  Metadata
}

// QueryResult is one ranked match from a similarity search. Distance is a
// non-negative dissimilarity score; lower means more similar. It is derived
// per query and never persisted.
type QueryResult struct {
	ID       string
	Text     string
	Metadata Metadata
	Distance float64
}

type Stats struct {
	TotalDocuments int
	CollectionName string
	EmbeddingModel string
}
