package history

import (
	"context"

	domhistory "github.com/divergeconnect/connect/internal/domain/history"
)

// Repository persists a session's history, newest first.
type Repository interface {
	Load(ctx context.Context, session string) ([]domhistory.Item, error)
	Save(ctx context.Context, session string, items []domhistory.Item) error
	Clear(ctx context.Context, session string) error
}
