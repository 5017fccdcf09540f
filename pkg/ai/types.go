package ai

import (
	"context"
	"errors"
)

// ErrEmptyCompletion indicates the provider answered without any choices or content blocks.
var ErrEmptyCompletion = errors.New("no choices returned from completion provider")

// CompletionRequest describes a single-turn completion call.
type CompletionRequest struct {
	Model       string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Usage holds the token counters reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the reply text plus usage returned by the provider.
type Completion struct {
	Text  string
	Usage Usage
}

// Completer describes an LLM capable of answering a single user prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
