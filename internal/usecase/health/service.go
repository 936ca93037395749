package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentCatalog = "catalog"
	ComponentStore   = "store"
	ComponentAssist  = "assist"
)

// DefaultCheckTimeout bounds each remote check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogSizer
	db      DBPinger
	assist  AssistChecker
	timeout time.Duration
}

// New creates a Service. assist can be nil when assisted search is disabled.
func New(catalog CatalogSizer, db DBPinger, assist AssistChecker) *Service {
	return &Service{catalog: catalog, db: db, assist: assist, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
// An empty catalog is Unhealthy; a failing store or provider is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	checks[ComponentCatalog] = CheckOK
	if s.catalog == nil || s.catalog.Len() == 0 {
		checks[ComponentCatalog] = CheckError
	}

	checks[ComponentStore] = s.run(ctx, s.db.Ping)
	if s.assist != nil {
		checks[ComponentAssist] = s.run(ctx, s.assist.HealthCheck)
	}

	status := Healthy
	if checks[ComponentCatalog] == CheckError {
		status = Unhealthy
	} else if checks[ComponentStore] == CheckError || checks[ComponentAssist] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
