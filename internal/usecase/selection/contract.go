package selection

import (
	"context"

	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/solution"
)

// Repository persists the ordered shortlist of a session.
type Repository interface {
	Load(ctx context.Context, session string) ([]string, error)
	Save(ctx context.Context, session string, ids []string) error
	Clear(ctx context.Context, session string) error
}

// Catalog resolves solution ids.
type Catalog interface {
	Has(id string) bool
	Lookup(ids []string) []solution.Solution
	Divisions() []division.Division
}
