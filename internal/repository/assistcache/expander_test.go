package assistcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/domain"
)

type mockExpander struct {
	result domain.Expansion
	err    error
	calls  int
}

func (m *mockExpander) Expand(_ context.Context, _ string) (domain.Expansion, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func TestExpand_CacheMiss(t *testing.T) {
	inner := &mockExpander{result: domain.Expansion{Terms: []string{"layout", "hospital"}, TotalTokens: 42}}
	ms := &mockKVStore{}
	counter := newCounter()
	ce := New(inner, ms, time.Hour, counter, zap.NewNop())

	var stored []byte
	var storedTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		if !strings.HasPrefix(key, "connect:assist_cache:") {
			t.Errorf("unexpected key %q", key)
		}
		stored, storedTTL = value, ttl
		return nil
	}

	exp, err := ce.Expand(context.Background(), "Layout robots for hospitals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.TotalTokens != 42 || len(exp.Terms) != 2 {
		t.Fatalf("unexpected expansion: %+v", exp)
	}
	if string(stored) != `{"terms":["layout","hospital"]}` {
		t.Errorf("stored = %s", stored)
	}
	if storedTTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", storedTTL)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss counter = %v, want 1", got)
	}
}

func TestExpand_CacheHit(t *testing.T) {
	inner := &mockExpander{}
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte(`{"terms":["safety"]}`), nil
		},
	}
	counter := newCounter()
	ce := New(inner, ms, 0, counter, zap.NewNop())

	exp, err := ce.Expand(context.Background(), "hazard cameras")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.Terms) != 1 || exp.Terms[0] != "safety" {
		t.Fatalf("expected cached terms, got %v", exp.Terms)
	}
	if exp.TotalTokens != 0 {
		t.Errorf("expected zero tokens on hit, got %d", exp.TotalTokens)
	}
	if inner.calls != 0 {
		t.Errorf("inner called %d times on hit", inner.calls)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit counter = %v, want 1", got)
	}
}

func TestExpand_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockExpander{result: domain.Expansion{Terms: []string{"ai"}}}
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) { return []byte("not json"), nil },
	}
	ce := New(inner, ms, 0, nil, zap.NewNop())

	exp, err := ce.Expand(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 || len(exp.Terms) != 1 {
		t.Errorf("expected inner call after corrupt cache, calls=%d terms=%v", inner.calls, exp.Terms)
	}
}

func TestExpand_InnerError(t *testing.T) {
	inner := &mockExpander{err: domain.ErrAssistProviderError}
	setCalled := false
	ms := &mockKVStore{
		setFn: func(context.Context, string, []byte, time.Duration) error {
			setCalled = true
			return nil
		},
	}
	ce := New(inner, ms, 0, nil, zap.NewNop())

	_, err := ce.Expand(context.Background(), "q")
	if !errors.Is(err, domain.ErrAssistProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if setCalled {
		t.Error("errors must not be cached")
	}
}

func TestExpand_StoreErrorsDoNotFail(t *testing.T) {
	inner := &mockExpander{result: domain.Expansion{Terms: []string{"bim"}}}
	ms := &mockKVStore{
		getFn: func(context.Context, string) ([]byte, error) { return nil, errors.New("conn reset") },
		setFn: func(context.Context, string, []byte, time.Duration) error { return errors.New("conn reset") },
	}
	ce := New(inner, ms, 0, nil, zap.NewNop())

	if _, err := ce.Expand(context.Background(), "q"); err != nil {
		t.Fatalf("store failures must degrade to a miss, got %v", err)
	}
}

func TestCacheKey_Normalizes(t *testing.T) {
	if cacheKey("  Layout Robots ") != cacheKey("layout robots") {
		t.Error("keys should ignore case and surrounding space")
	}
	if cacheKey("layout") == cacheKey("safety") {
		t.Error("distinct queries must not collide")
	}
}
