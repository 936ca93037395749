package assistcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/domain"
)

var cacheKeyPrefix = db.KeyPrefix + "assist_cache:"

// store is the consumer interface for the expansion cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedExpander caches query expansions in a key-value store.
type CachedExpander struct {
	inner      domain.Expander
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. ttl <= 0 caches without expiry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Expander,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedExpander {
	return &CachedExpander{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedTerms struct {
	Terms []string `json:"terms"`
}

// Expand returns cached terms or calls the inner expander.
// A cache hit reports zero tokens.
func (c *CachedExpander) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	key := cacheKey(query)

	if terms, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.Expansion{Terms: terms}, nil
	}

	c.incCache("miss")

	exp, err := c.inner.Expand(ctx, query)
	if err != nil {
		return domain.Expansion{}, fmt.Errorf("expand query: %w", err)
	}

	c.putToCache(ctx, key, exp.Terms)
	return exp, nil
}

func (c *CachedExpander) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the trimmed, lower-cased query so trivially different spellings share an entry.
func cacheKey(query string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedExpander) getFromCache(ctx context.Context, key string) ([]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached expansion", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var ct cachedTerms
	if err := json.Unmarshal(data, &ct); err != nil {
		c.logger.Warn("Failed to parse cached expansion", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return ct.Terms, true
}

func (c *CachedExpander) putToCache(ctx context.Context, key string, terms []string) {
	data, err := json.Marshal(cachedTerms{Terms: terms})
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache expansion", zap.String("key", key), zap.Error(err))
	}
}
