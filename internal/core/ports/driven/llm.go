package driven

import "context"

// LLMService provides text generation for the analysis step.
// This is an optional service - when nil, queries degrade to retrieval-only.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4 family)
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens bounds the number of tokens generated.
	MaxTokens int

	// Deterministic requests greedy, non-sampling decoding so repeated
	// calls with the same prompt produce the same output.
	Deterministic bool

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
