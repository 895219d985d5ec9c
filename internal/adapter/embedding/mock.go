package embedding

// MockEmbedder produces deterministic vectors derived from the input runes.
// Texts sharing a prefix embed close together, which is enough structure for
// retrieval tests without a model backend.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)
		for j, r := range texts[i] {
			if j < e.dimension {
				embeddings[i][j] = float32(r) / 1000.0
			}
		}
	}
	return embeddings, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
