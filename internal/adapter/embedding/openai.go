package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint. Ollama
// exposes the same API under its /v1 prefix, so both providers share this
// client. The HTTP client is held for the process lifetime; the backend
// loads model weights lazily on the first call.
type OpenAIEmbedder struct {
	apiKey    string
	model     string
	baseURL   string
	dimension int
	batchSize int
	client    *http.Client
}

// Config configures an OpenAI-compatible embedder.
type Config struct {
	BaseURL   string
	APIKeyEnv string // environment variable holding the API key
	Model     string
	Dimension int // 0 means look up by model name
	BatchSize int
	Timeout   time.Duration
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIEmbedder creates an embedder against an OpenAI-compatible API.
// The API key is read from the environment variable named in the config.
func NewOpenAIEmbedder(cfg Config) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", cfg.APIKeyEnv)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return newEmbedder(apiKey, cfg), nil
}

// NewOllamaEmbedder creates an embedder against a local Ollama instance,
// which accepts any bearer token.
func NewOllamaEmbedder(cfg Config) *OpenAIEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	return newEmbedder("ollama", cfg)
}

func newEmbedder(apiKey string, cfg Config) *OpenAIEmbedder {
	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = modelDimension(cfg.Model)
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIEmbedder{
		apiKey:    apiKey,
		model:     cfg.Model,
		baseURL:   cfg.BaseURL,
		dimension: dimension,
		batchSize: batchSize,
		client:    &http.Client{Timeout: timeout},
	}
}

func modelDimension(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	case "nomic-embed-text":
		return 768
	case "mxbai-embed-large":
		return 1024
	case "all-minilm":
		return 384
	}
	return 768
}

func (e *OpenAIEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var allEmbeddings [][]float32
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		embeddings, err := e.embedBatch(texts[i:end])
		if err != nil {
			return nil, err
		}
		allEmbeddings = append(allEmbeddings, embeddings...)
	}

	return allEmbeddings, nil
}

func (e *OpenAIEmbedder) embedBatch(texts []string) ([][]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", e.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s", embResp.Error.Message)
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < len(embeddings) {
			embeddings[data.Index] = data.Embedding
		}
	}
	return embeddings, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}
