package ai

import "context"

// CompletionRequest is a single-shot, non-streaming text completion.
// Model may be empty, in which case the provider's configured default
// model is used.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// Completion carries the raw model reply. Callers parse the text
// themselves; replies from arbitrary caller-chosen models are not
// schema-constrained.
type Completion struct {
	Text  string
	Model string
	Usage *TokenUsage
}

// Provider interface for different LLM implementations
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
