package search

import (
	"context"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/solution"
)

// Catalog reads the loaded solution set.
type Catalog interface {
	Solutions() []solution.Solution
	Divisions() []division.Division
}

// Expander suggests catalog terms for a natural-language query.
type Expander interface {
	Expand(ctx context.Context, query string) (domain.Expansion, error)
}
