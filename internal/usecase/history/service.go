package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	domhistory "github.com/divergeconnect/connect/internal/domain/history"
	"github.com/divergeconnect/connect/internal/domain/session"
)

// DefaultMaxItems is the history length kept when no limit is configured.
const DefaultMaxItems = 20

// Service records the pages a session visited.
type Service struct {
	repo     Repository
	maxItems int
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a history service. maxItems <= 0 uses DefaultMaxItems.
func New(repo Repository, maxItems int, logger *zap.Logger) *Service {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		maxItems: maxItems,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Add prepends a visit, drops earlier visits to the same path and caps the list.
func (s *Service) Add(ctx context.Context, sess string, typ domhistory.Type, title, path string) (domhistory.Item, error) {
	if err := session.Validate(sess); err != nil {
		return domhistory.Item{}, err
	}
	item := domhistory.Item{
		ID:        s.newID(),
		Type:      typ,
		Title:     title,
		Path:      path,
		Timestamp: s.now().UnixMilli(),
	}
	if err := item.Validate(); err != nil {
		return domhistory.Item{}, err
	}

	items, err := s.load(ctx, sess)
	if err != nil {
		return domhistory.Item{}, err
	}

	next := make([]domhistory.Item, 0, min(len(items)+1, s.maxItems))
	next = append(next, item)
	for _, it := range items {
		if len(next) == s.maxItems {
			break
		}
		if it.Path != path {
			next = append(next, it)
		}
	}

	if err := s.repo.Save(ctx, sess, next); err != nil {
		return domhistory.Item{}, fmt.Errorf("save history: %w", err)
	}
	return item, nil
}

// List returns the session history, newest first.
func (s *Service) List(ctx context.Context, sess string) ([]domhistory.Item, error) {
	if err := session.Validate(sess); err != nil {
		return nil, err
	}
	return s.load(ctx, sess)
}

// Clear removes the session history.
func (s *Service) Clear(ctx context.Context, sess string) error {
	if err := session.Validate(sess); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, sess); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, sess string) ([]domhistory.Item, error) {
	items, err := s.repo.Load(ctx, sess)
	if errors.Is(err, domain.ErrCorruptState) {
		s.logger.Warn("Corrupt history replaced with empty list",
			zap.String("session", sess),
			zap.Error(err),
		)
		if err := s.repo.Save(ctx, sess, nil); err != nil {
			s.logger.Warn("Failed to overwrite corrupt history", zap.String("session", sess), zap.Error(err))
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return items, nil
}
