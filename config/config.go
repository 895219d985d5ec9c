package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the RAG service.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Chat      ChatConfig      `yaml:"chat"`
}

// AppConfig identifies the application in health responses.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "ollama", "openai", "mock"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	Dimension int    `yaml:"dimension"`   // 0 = derive from model name
	BatchSize int    `yaml:"batch_size"`
}

// IndexConfig holds vector index storage configuration.
type IndexConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK    int `yaml:"top_k"`     // default result count for /query
	MaxTopK int `yaml:"max_top_k"` // upper bound accepted from callers
}

// ChatConfig holds generation backend configuration.
type ChatConfig struct {
	Enabled     bool    `yaml:"enabled"`
	OllamaHost  string  `yaml:"ollama_host"`
	Model       string  `yaml:"model"`
	TopK        int     `yaml:"top_k"`     // default context documents for /chat
	MaxTopK     int     `yaml:"max_top_k"` // upper bound for /chat
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "ragserve",
			Version: "0.1.0",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			BaseURL:   "http://localhost:11434/v1",
			APIKeyEnv: "OPENAI_API_KEY",
			BatchSize: 100,
		},
		Index: IndexConfig{
			Path:       "data/index.db",
			Collection: "rag_documents",
		},
		Retrieve: RetrieveConfig{
			TopK:    5,
			MaxTopK: 20,
		},
		Chat: ChatConfig{
			Enabled:     true,
			OllamaHost:  "http://localhost:11434",
			Model:       "llama3.2",
			TopK:        3,
			MaxTopK:     10,
			Temperature: 0.7,
			MaxTokens:   500,
		},
	}
}

// Load loads configuration from a YAML file, applying environment overrides
// afterwards. A missing file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides config fields from RAG_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.App.Name, "RAG_APP_NAME")
	setString(&cfg.Server.Addr, "RAG_LISTEN_ADDR")
	setString(&cfg.Embedding.Provider, "RAG_EMBEDDING_PROVIDER")
	setString(&cfg.Embedding.Model, "RAG_EMBEDDING_MODEL")
	setString(&cfg.Embedding.BaseURL, "RAG_EMBEDDING_BASE_URL")
	setString(&cfg.Embedding.APIKeyEnv, "RAG_EMBEDDING_API_KEY_ENV")
	setInt(&cfg.Embedding.Dimension, "RAG_EMBEDDING_DIMENSION")
	setString(&cfg.Index.Path, "RAG_INDEX_PATH")
	setString(&cfg.Index.Collection, "RAG_COLLECTION_NAME")
	setInt(&cfg.Retrieve.TopK, "RAG_TOP_K")
	setBool(&cfg.Chat.Enabled, "RAG_CHAT_ENABLED")
	setString(&cfg.Chat.OllamaHost, "RAG_OLLAMA_HOST")
	setString(&cfg.Chat.Model, "RAG_OLLAMA_MODEL")
	setFloat(&cfg.Chat.Temperature, "RAG_TEMPERATURE")
	setInt(&cfg.Chat.MaxTokens, "RAG_MAX_TOKENS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
