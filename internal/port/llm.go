package port

// GenerateOptions carries per-call overrides for generation parameters.
// Nil fields fall back to the backend's configured defaults.
type GenerateOptions struct {
	Temperature *float64
	MaxTokens   *int
}

// LLM represents a language model backend for text generation.
type LLM interface {
	// Generate produces a completion for the prompt. Backend failures are
	// returned as-is; connection-level failures wrap
	// domain.ErrGeneratorUnavailable.
	Generate(prompt string, opts GenerateOptions) (string, error)

	// EnsureModel checks that the configured model is available on the
	// backend, pulling it if necessary. Not invoked in the request path.
	EnsureModel() error

	// ModelName returns the name of the model.
	ModelName() string
}
