package port

import "ragserve/internal/domain"

// VectorIndex stores document records with their embeddings and supports
// nearest-neighbor search. Implementations own the storage format and the
// distance metric; the only contract is that lower distance means higher
// similarity and that ordering is reproducible for identical inputs.
type VectorIndex interface {
	// Insert stores a record. Fails with domain.ErrDuplicateID if the id is
	// already present and domain.ErrDimensionMismatch if the vector length
	// differs from the collection's dimensionality.
	Insert(id string, vector []float32, text string, metadata domain.Metadata) error

	// Search returns up to k records ordered by ascending distance from the
	// query vector. Ties are broken by insertion order (earlier wins). An
	// empty collection yields an empty result, not an error.
	Search(vector []float32, k int) ([]domain.QueryResult, error)

	// Delete removes the record if present and reports whether it existed.
	Delete(id string) (bool, error)

	// Clear atomically removes all records, restoring the collection to its
	// just-created empty state.
	Clear() error

	// Count returns the number of stored records, reflecting all completed
	// inserts and deletes.
	Count() (int, error)

	// NextSequence returns the next value of the collection's persisted
	// monotonic counter. Values are never reused after deletions; the counter
	// restarts only when the collection is cleared.
	NextSequence() (uint64, error)
}
