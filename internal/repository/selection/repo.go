package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/domain"
)

// store is the consumer interface for shortlist persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/selection.Repository.
type Repo struct {
	store store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a selection repository. Sessions idle longer than ttl expire; ttl <= 0 keeps them.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl, now: time.Now}
}

type selectionRow struct {
	IDs       []string `json:"ids"`
	UpdatedAt int64    `json:"updated_at"`
}

// Load returns the stored ids for session in insertion order, nil if none.
// Undecodable data returns domain.ErrCorruptState.
func (r *Repo) Load(ctx context.Context, session string) ([]string, error) {
	key := selectionKey(session)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var row selectionRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorruptState, key, err)
	}
	return row.IDs, nil
}

// Save replaces the stored ids for session.
func (r *Repo) Save(ctx context.Context, session string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(selectionRow{IDs: ids, UpdatedAt: r.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	key := selectionKey(session)
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Clear removes the stored selection.
func (r *Repo) Clear(ctx context.Context, session string) error {
	key := selectionKey(session)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func selectionKey(session string) string {
	return db.KeyPrefix + "session:" + session + ":selection"
}
