package ai

import (
	"context"
	"errors"
)

// Token budgets for a completion.
const (
	Brief    = 512
	Standard = 1024
	Extended = 2048
)

var (
	ErrAllProvidersFailed = errors.New("all AI providers failed")
	ErrEmptyCompletion    = errors.New("empty completion")
	ErrMissingContext     = errors.New("missing required fields: packedItems or tripSummary")
)

// Request is a single-turn completion. System may be empty.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider is a Completer with a stable name for logs and metrics.
type Provider interface {
	Completer
	Name() string
}
