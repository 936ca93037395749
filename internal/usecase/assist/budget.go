package assist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/domain"
)

// BudgetAction defines behavior when the token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

const persistTimeout = 2 * time.Second

// BudgetStore is the persistence interface for budget counters.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// window counts tokens for one calendar period (UTC day or month).
type window struct {
	name   string
	layout string
	start  func(time.Time) time.Time
	limit  int64
	used   int64
	since  time.Time
}

func (w *window) roll(now time.Time) {
	if s := w.start(now); s.After(w.since) {
		w.used = 0
		w.since = s
	}
}

func (w *window) exceeded() bool { return w.limit > 0 && w.used >= w.limit }

// remaining is -1 for an unlimited window.
func (w *window) remaining() int64 {
	switch {
	case w.limit == 0:
		return -1
	case w.used >= w.limit:
		return 0
	default:
		return w.limit - w.used
	}
}

func (w *window) key(provider string, now time.Time) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", db.KeyPrefix, provider, w.name, now.Format(w.layout))
}

// BudgetTracker counts assist tokens per day and per month.
// Check is answered from memory; Record writes behind to the store when one is attached.
type BudgetTracker struct {
	provider string
	action   BudgetAction
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	day   window
	month window
	store BudgetStore
}

// NewBudgetTracker creates a budget tracker. A zero limit means unlimited.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	return newBudgetTracker(provider, dailyLimit, monthlyLimit, action, logger, time.Now)
}

func newBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger, now func() time.Time,
) *BudgetTracker {
	t := now().UTC()
	b := &BudgetTracker{
		provider: provider,
		action:   action,
		logger:   logger,
		now:      now,
		day:      window{name: "daily", layout: "2006-01-02", start: startOfDay, limit: dailyLimit},
		month:    window{name: "monthly", layout: "2006-01", start: startOfMonth, limit: monthlyLimit},
	}
	b.day.since = b.day.start(t)
	b.month.since = b.month.start(t)
	return b
}

// WithStore attaches a persistence store and seeds the counters from it.
// Counters that fail to load start at zero.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	t := b.now().UTC()
	for _, w := range []*window{&b.day, &b.month} {
		used, err := store.Get(ctx, w.key(b.provider, t))
		if err != nil {
			b.logger.Warn("Failed to load assist budget", zap.String("period", w.name), zap.Error(err))
			continue
		}
		w.used = used
	}

	b.logger.Info("Assist budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("monthly_used", b.month.used),
	)
	return b
}

// Check returns domain.ErrAssistQuotaExceeded when a limit is reached and the
// action is reject. With the warn action the request is allowed and logged.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollLocked()
	if !b.day.exceeded() && !b.month.exceeded() {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrAssistQuotaExceeded
	}

	b.logger.Warn("Assist token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record adds consumed tokens to both periods.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollLocked()
	b.day.used += tokens
	b.month.used += tokens
	store := b.store
	t := b.now().UTC()
	keys := []string{b.day.key(b.provider, t), b.month.key(b.provider, t)}
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the request: a cancelled search still spent the tokens.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist assist budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Provider returns the provider the budget applies to.
func (b *BudgetTracker) Provider() string { return b.provider }

// DailyLimit returns the daily token limit (0 if unlimited).
func (b *BudgetTracker) DailyLimit() int64 { return b.day.limit }

// MonthlyLimit returns the monthly token limit (0 if unlimited).
func (b *BudgetTracker) MonthlyLimit() int64 { return b.month.limit }

// DailyUsed returns tokens spent today.
func (b *BudgetTracker) DailyUsed() int64 {
	return b.read(func() int64 { return b.day.used })
}

// MonthlyUsed returns tokens spent this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	return b.read(func() int64 { return b.month.used })
}

// RemainingDaily returns tokens left in the daily budget (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	return b.read(b.day.remaining)
}

// RemainingMonthly returns tokens left in the monthly budget (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	return b.read(b.month.remaining)
}

func (b *BudgetTracker) read(f func() int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return f()
}

func (b *BudgetTracker) rollLocked() {
	t := b.now().UTC()
	b.day.roll(t)
	b.month.roll(t)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
