package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// AssistChecker checks assist provider availability.
type AssistChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogSizer reports how many solutions the loaded catalog holds.
type CatalogSizer interface {
	Len() int
}
