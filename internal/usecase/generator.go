package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"log"
	"text/template"

	"ragserve/internal/domain"
	"ragserve/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var answerPrompt = template.Must(
	template.ParseFS(promptTemplates, "templates/answer_prompt.txt"))

// Generator composes retrieved context with a question into a grounding
// prompt and forwards it to the language-model backend. It is a pure
// consumer of the Retriever's output: no retry, no output validation.
type Generator struct {
	llm port.LLM
}

func NewGenerator(llm port.LLM) *Generator {
	return &Generator{llm: llm}
}

type promptData struct {
	Context string
	Query   string
}

// Generate builds the prompt from the context documents and query, then
// calls the backend synchronously. Backend failures propagate upward.
func (g *Generator) Generate(query string, docs []domain.QueryResult, opts port.GenerateOptions) (string, error) {
	var buf bytes.Buffer
	err := answerPrompt.Execute(&buf, promptData{
		Context: BuildContext(docs),
		Query:   query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	log.Printf("generating response with %d context documents", len(docs))
	response, err := g.llm.Generate(buf.String(), opts)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return response, nil
}

// EnsureModel delegates to the backend's model availability check.
func (g *Generator) EnsureModel() error {
	return g.llm.EnsureModel()
}

// ModelName returns the backend model identifier.
func (g *Generator) ModelName() string {
	return g.llm.ModelName()
}
