package domain

import (
	"context"
	"errors"
)

// ErrAssistQuotaExceeded signals that the assist token budget is spent.
var ErrAssistQuotaExceeded = errors.New("assist token budget exceeded")

// Expansion is the provider's answer for a natural-language query.
type Expansion struct {
	Terms        []string
	PromptTokens int
	TotalTokens  int
}

// Expander suggests catalog terms (categories, verticals, regions, keywords)
// for a natural-language query.
type Expander interface {
	Expand(ctx context.Context, query string) (Expansion, error)
}
