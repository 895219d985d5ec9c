package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ragserve/internal/domain"
	"ragserve/internal/port"
)

// OllamaClient talks to an Ollama instance over its native HTTP API.
// Connection-level failures wrap domain.ErrGeneratorUnavailable so callers
// can distinguish an unreachable backend from a bad request.
type OllamaClient struct {
	host               string
	model              string
	defaultTemperature float64
	defaultMaxTokens   int
	client             *http.Client
}

// Config configures the Ollama client.
type Config struct {
	Host        string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func NewOllamaClient(cfg Config) *OllamaClient {
	host := strings.TrimSuffix(cfg.Host, "/")
	if host == "" {
		host = "http://localhost:11434"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OllamaClient{
		host:               host,
		model:              cfg.Model,
		defaultTemperature: cfg.Temperature,
		defaultMaxTokens:   cfg.MaxTokens,
		client:             &http.Client{Timeout: timeout},
	}
}

// Generate runs a completion for the prompt. Per-call options override the
// configured defaults when set.
func (c *OllamaClient) Generate(prompt string, opts port.GenerateOptions) (string, error) {
	temperature := c.defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := c.defaultMaxTokens
	if opts.MaxTokens != nil {
		maxTokens = *opts.MaxTokens
	}

	jsonData, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	resp, err := c.client.Post(c.host+"/api/generate", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generate response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: backend returned status %d", domain.ErrGeneratorUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate API returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse generate response: %w", err)
	}
	if genResp.Error != "" {
		return "", fmt.Errorf("generate API error: %s", genResp.Error)
	}

	return strings.TrimSpace(genResp.Response), nil
}

// EnsureModel checks that the configured model is present on the backend and
// pulls it if missing. This can be slow on first run and is never called in
// the request path.
func (c *OllamaClient) EnsureModel() error {
	resp, err := c.client.Get(c.host + "/api/tags")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to parse tags response: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == c.model || strings.TrimSuffix(m.Name, ":latest") == c.model {
			return nil
		}
	}

	log.Printf("model %s not found, pulling", c.model)
	jsonData, _ := json.Marshal(map[string]any{"name": c.model, "stream": false})
	pullResp, err := c.client.Post(c.host+"/api/pull", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGeneratorUnavailable, err)
	}
	defer pullResp.Body.Close()

	if pullResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(pullResp.Body)
		return fmt.Errorf("pull API returned status %d: %s", pullResp.StatusCode, string(body))
	}
	log.Printf("model %s pulled successfully", c.model)
	return nil
}

func (c *OllamaClient) ModelName() string {
	return c.model
}
