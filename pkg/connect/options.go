package connect

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory" or "redis"
	addrs    []string
	password string

	catalogPath string
	catalogData []byte

	expander Expander

	selectionMax int
	historyMax   int
	sessionTTL   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis keeps session state in a Redis or Valkey instance.
// Without it the client keeps state in process memory.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCatalogFile loads the catalog from a YAML file instead of the bundled one.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
		c.catalogData = nil
	})
}

// WithCatalogData parses the catalog from YAML bytes instead of the bundled one.
func WithCatalogData(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogData = data
		c.catalogPath = ""
	})
}

// WithExpander enables assisted search. Without it assisted queries
// are served as keyword queries.
func WithExpander(e Expander) Option {
	return optionFunc(func(c *clientConfig) {
		c.expander = e
	})
}

// WithSelectionLimit caps the shortlist size. Default: 100.
func WithSelectionLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.selectionMax = n
	})
}

// WithHistoryLimit caps the number of history entries per session. Default: 20.
func WithHistoryLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.historyMax = n
	})
}

// WithSessionTTL expires idle session state. Zero keeps it forever (default).
func WithSessionTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionTTL = ttl
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
