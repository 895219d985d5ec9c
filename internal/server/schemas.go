package server

import "ragserve/internal/domain"

type documentCreateRequest struct {
	Text     string          `json:"text"`
	Metadata domain.Metadata `json:"metadata,omitempty"`
}

type documentResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type queryRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

type queryResult struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Metadata domain.Metadata `json:"metadata"`
	Distance float64         `json:"distance"`
}

type queryResponse struct {
	Query   string        `json:"query"`
	Results []queryResult `json:"results"`
	Count   int           `json:"count"`
}

type statsResponse struct {
	TotalDocuments int    `json:"total_documents"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	AppName string `json:"app_name"`
	Version string `json:"version"`
}

type chatRequest struct {
	Query       string   `json:"query"`
	TopK        *int     `json:"top_k,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Query    string        `json:"query"`
	Response string        `json:"response"`
	Sources  []queryResult `json:"sources"`
	Model    string        `json:"model"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func toQueryResults(results []domain.QueryResult) []queryResult {
	out := make([]queryResult, len(results))
	for i, r := range results {
		metadata := r.Metadata
		if metadata == nil {
			metadata = domain.Metadata{}
		}
		out[i] = queryResult{
			ID:       r.ID,
			Text:     r.Text,
			Metadata: metadata,
			Distance: r.Distance,
		}
	}
	return out
}
