package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"ragserve/internal/domain"
	"ragserve/internal/port"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		AppName: s.cfg.App.Name,
		Version: s.cfg.App.Version,
	})
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req documentCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "text must not be empty")
		return
	}

	id, err := s.retriever.AddDocument(req.Text, req.Metadata)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyText) {
			writeError(w, http.StatusUnprocessableEntity, "text must not be empty")
			return
		}
		log.Printf("error adding document: %v", err)
		writeError(w, http.StatusInternalServerError, "error adding document")
		return
	}

	writeJSON(w, http.StatusCreated, documentResponse{
		ID:      id,
		Message: "Document added successfully",
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}

	topK := s.cfg.Retrieve.TopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > s.cfg.Retrieve.MaxTopK {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("top_k must be between 1 and %d", s.cfg.Retrieve.MaxTopK))
		return
	}

	results, err := s.retriever.Query(req.Query, topK)
	if err != nil {
		log.Printf("error querying documents: %v", err)
		writeError(w, http.StatusInternalServerError, "error querying documents")
		return
	}

	out := toQueryResults(results)
	writeJSON(w, http.StatusOK, queryResponse{
		Query:   req.Query,
		Results: out,
		Count:   len(out),
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.retriever.DeleteDocument(id) {
		writeJSON(w, http.StatusOK, deleteResponse{
			Success: true,
			Message: fmt.Sprintf("Document %s deleted successfully", id),
		})
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		Success: false,
		Message: fmt.Sprintf("Failed to delete document %s", id),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.retriever.Reset() {
		writeJSON(w, http.StatusOK, deleteResponse{
			Success: true,
			Message: "Collection reset successfully",
		})
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		Success: false,
		Message: "Failed to reset collection",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.retriever.Stats()
	if err != nil {
		log.Printf("error getting stats: %v", err)
		writeError(w, http.StatusInternalServerError, "error getting stats")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalDocuments: stats.TotalDocuments,
		CollectionName: stats.CollectionName,
		EmbeddingModel: stats.EmbeddingModel,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}

	topK := s.cfg.Chat.TopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > s.cfg.Chat.MaxTopK {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("top_k must be between 1 and %d", s.cfg.Chat.MaxTopK))
		return
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 1) {
		writeError(w, http.StatusUnprocessableEntity, "temperature must be between 0 and 1")
		return
	}
	if req.MaxTokens != nil && (*req.MaxTokens < 50 || *req.MaxTokens > 2048) {
		writeError(w, http.StatusUnprocessableEntity, "max_tokens must be between 50 and 2048")
		return
	}

	if s.generator == nil {
		writeError(w, http.StatusServiceUnavailable,
			"generation backend is not available; ensure Ollama is running and chat is enabled")
		return
	}

	results, err := s.retriever.Query(req.Query, topK)
	if err != nil {
		log.Printf("error retrieving chat context: %v", err)
		writeError(w, http.StatusInternalServerError, "error processing chat request")
		return
	}

	response, err := s.generator.Generate(req.Query, results, port.GenerateOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGeneratorUnavailable) {
			log.Printf("generation backend unavailable: %v", err)
			writeError(w, http.StatusServiceUnavailable, "generation backend is not available")
			return
		}
		log.Printf("error generating response: %v", err)
		writeError(w, http.StatusInternalServerError, "error processing chat request")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Query:    req.Query,
		Response: response,
		Sources:  toQueryResults(results),
		Model:    s.generator.ModelName(),
	})
}
