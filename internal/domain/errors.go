package domain

import "errors"

var (
	// ErrDuplicateID is returned when an insert reuses an existing document ID.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrDimensionMismatch is returned when a vector's length differs from the
	// collection's fixed dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyText is returned when a document or query text is empty.
	ErrEmptyText = errors.New("text must not be empty")

	// ErrInvalidTopK is returned when a requested result count is out of range.
	ErrInvalidTopK = errors.New("top_k out of range")

	// ErrGeneratorUnavailable is returned when the generation backend is not
	// configured or cannot be reached.
	ErrGeneratorUnavailable = errors.New("generation backend unavailable")
)
