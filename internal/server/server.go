package server

import (
	"encoding/json"
	"log"
	"net/http"

	"ragserve/config"
	"ragserve/internal/usecase"
)

// Server wires the retrieval core into the HTTP surface. The generator is
// an optional capability: when nil, /chat answers service-unavailable while
// every retrieval endpoint keeps working.
type Server struct {
	cfg       *config.Config
	retriever *usecase.Retriever
	generator *usecase.Generator
}

func New(cfg *config.Config, retriever *usecase.Retriever, generator *usecase.Generator) *Server {
	return &Server{
		cfg:       cfg,
		retriever: retriever,
		generator: generator,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /documents", s.handleAddDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /chat", s.handleChat)

	return corsMiddleware(requestLogger(mux))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// decodeJSON parses the request body into dst, reporting malformed input as
// a validation failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	return true
}
