package usecase

import (
	"fmt"
	"log"
	"strings"

	"ragserve/internal/domain"
	"ragserve/internal/port"
)

// Retriever orchestrates the embedder and the vector index. It is the only
// writer path into the index and owns the ID assignment policy: IDs come
// from the collection's persisted counter, so they stay unique under
// concurrent inserts and are never reused after deletions.
type Retriever struct {
	embedder   port.Embedder
	index      port.VectorIndex
	collection string
	maxTopK    int
}

func NewRetriever(embedder port.Embedder, index port.VectorIndex, collection string, maxTopK int) *Retriever {
	if maxTopK <= 0 {
		maxTopK = 20
	}
	return &Retriever{
		embedder:   embedder,
		index:      index,
		collection: collection,
		maxTopK:    maxTopK,
	}
}

// AddDocument embeds the text, assigns an ID and inserts the record.
// Returns the assigned document ID.
func (r *Retriever) AddDocument(text string, metadata domain.Metadata) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyText
	}
	if metadata == nil {
		metadata = domain.Metadata{}
	}

	vectors, err := r.embedder.Embed([]string{text})
	if err != nil {
		return "", fmt.Errorf("failed to embed document: %w", err)
	}

	seq, err := r.index.NextSequence()
	if err != nil {
		return "", fmt.Errorf("failed to assign document id: %w", err)
	}
	id := fmt.Sprintf("doc_%d", seq)

	if err := r.index.Insert(id, vectors[0], text, metadata); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	log.Printf("document added: %s", id)
	return id, nil
}

// Query re-embeds the query text on every call and returns up to topK
// records ranked by ascending distance. Distances are passed through
// unmodified; callers wanting a relevance score must invert them.
func (r *Retriever) Query(queryText string, topK int) ([]domain.QueryResult, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, domain.ErrEmptyText
	}
	if topK < 1 || topK > r.maxTopK {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", domain.ErrInvalidTopK, topK, r.maxTopK)
	}

	vectors, err := r.embedder.Embed([]string{queryText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.index.Search(vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	log.Printf("query returned %d results", len(results))
	return results, nil
}

// DeleteDocument removes a document by ID. Fail-soft: index failures are
// logged and reported as false, never propagated.
func (r *Retriever) DeleteDocument(id string) bool {
	removed, err := r.index.Delete(id)
	if err != nil {
		log.Printf("error deleting document %s: %v", id, err)
		return false
	}
	if removed {
		log.Printf("document deleted: %s", id)
	}
	return removed
}

// Reset clears the collection. Fail-soft like DeleteDocument.
func (r *Retriever) Reset() bool {
	if err := r.index.Clear(); err != nil {
		log.Printf("error resetting collection: %v", err)
		return false
	}
	log.Printf("collection %s reset", r.collection)
	return true
}

// Stats returns a read-only snapshot of the collection.
func (r *Retriever) Stats() (domain.Stats, error) {
	count, err := r.index.Count()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to count documents: %w", err)
	}
	return domain.Stats{
		TotalDocuments: count,
		CollectionName: r.collection,
		EmbeddingModel: r.embedder.ModelName(),
	}, nil
}
