package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ragserve/config"
	"ragserve/internal/adapter/embedding"
	"ragserve/internal/adapter/store"
	"ragserve/internal/port"
	"ragserve/internal/usecase"
)

// newEmbedder builds the configured embedder implementation.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	ec := cfg.Embedding
	switch ec.Provider {
	case "ollama", "":
		return embedding.NewOllamaEmbedder(embedding.Config{
			BaseURL:   ec.BaseURL,
			Model:     ec.Model,
			Dimension: ec.Dimension,
			BatchSize: ec.BatchSize,
		}), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(embedding.Config{
			BaseURL:   ec.BaseURL,
			APIKeyEnv: ec.APIKeyEnv,
			Model:     ec.Model,
			Dimension: ec.Dimension,
			BatchSize: ec.BatchSize,
			Timeout:   60 * time.Second,
		})
	case "mock":
		dimension := ec.Dimension
		if dimension <= 0 {
			dimension = 384
		}
		return embedding.NewMockEmbedder(dimension), nil
	}
	return nil, fmt.Errorf("unknown embedding provider: %s", ec.Provider)
}

// openRetriever wires the embedder and the vector index into a Retriever.
// The caller must close the returned index.
func openRetriever(cfg *config.Config) (*usecase.Retriever, *store.BoltVectorIndex, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	if dir := filepath.Dir(cfg.Index.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	index, err := store.NewBoltVectorIndex(cfg.Index.Path, cfg.Index.Collection, embedder.Dimension())
	if err != nil {
		return nil, nil, err
	}

	retriever := usecase.NewRetriever(embedder, index, cfg.Index.Collection, cfg.Retrieve.MaxTopK)
	return retriever, index, nil
}
