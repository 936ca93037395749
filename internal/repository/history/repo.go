package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/domain"
	domhistory "github.com/divergeconnect/connect/internal/domain/history"
)

// store is the consumer interface for history persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/history.Repository.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a history repository. ttl <= 0 keeps entries until cleared.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Load returns the stored items for session, newest first.
func (r *Repo) Load(ctx context.Context, session string) ([]domhistory.Item, error) {
	key := historyKey(session)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var items []domhistory.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorruptState, key, err)
	}
	return items, nil
}

// Save replaces the stored items for session.
func (r *Repo) Save(ctx context.Context, session string, items []domhistory.Item) error {
	if items == nil {
		items = []domhistory.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	key := historyKey(session)
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Clear removes the stored history.
func (r *Repo) Clear(ctx context.Context, session string) error {
	key := historyKey(session)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func historyKey(session string) string {
	return db.KeyPrefix + "session:" + session + ":history"
}
