package connect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/catalog"
	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/db/memory"
	dbRedis "github.com/divergeconnect/connect/internal/db/redis"
	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
	"github.com/divergeconnect/connect/internal/domain/search/request"
	historyrepo "github.com/divergeconnect/connect/internal/repository/history"
	selectionrepo "github.com/divergeconnect/connect/internal/repository/selection"
	cataloguc "github.com/divergeconnect/connect/internal/usecase/catalog"
	healthuc "github.com/divergeconnect/connect/internal/usecase/health"
	historyuc "github.com/divergeconnect/connect/internal/usecase/history"
	searchuc "github.com/divergeconnect/connect/internal/usecase/search"
	selectionuc "github.com/divergeconnect/connect/internal/usecase/selection"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the connect entry point. Safe for concurrent use.
type Client struct {
	store     db.Store
	search    *searchuc.Service
	browse    *cataloguc.Service
	selection *selectionuc.Service
	history   *historyuc.Service
	health    *healthuc.Service
	obs       *observer
}

// New loads the catalog and connects to the session store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("connect: session store not ready: %w", err)
	}

	return wireClient(store, cat, cfg, obs), nil
}

func loadCatalog(cfg *clientConfig) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	switch {
	case cfg.catalogData != nil:
		cat, err = catalog.Parse(cfg.catalogData)
	case cfg.catalogPath != "":
		cat, err = catalog.Load(cfg.catalogPath)
	default:
		cat, err = catalog.Bundled()
	}
	if err != nil {
		return nil, fmt.Errorf("connect: load catalog: %w", err)
	}
	return cat, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("connect: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("connect: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cat *catalog.Catalog, cfg *clientConfig, obs *observer) *Client {
	// Services log through zap; the public logger is slog and sees operation outcomes only.
	log := zap.NewNop()

	var expander domain.Expander
	if cfg.expander != nil {
		expander = &expanderAdapter{inner: cfg.expander}
	}

	return &Client{
		store:     store,
		search:    searchuc.New(cat, nil, expander),
		browse:    cataloguc.New(cat),
		selection: selectionuc.New(selectionrepo.New(store, cfg.sessionTTL), cat, cfg.selectionMax, log),
		history:   historyuc.New(historyrepo.New(store, cfg.sessionTTL), cfg.historyMax, log),
		health:    healthuc.New(cat, store, nil),
		obs:       obs,
	}
}

// Close releases the session store.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks session store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search ranks the catalog for q. An assisted query whose expander fails
// is answered with keyword results and Results.Assisted set to false.
func (c *Client) Search(ctx context.Context, q Query) (res Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := q.request()
	if err != nil {
		return Results{}, err
	}
	resp, err := c.search.Search(ctx, &req)
	if err != nil {
		return Results{}, err
	}
	if q.Assisted && resp.Mode != mode.Assisted {
		c.obs.fallback(q.Text)
	}

	res = Results{
		Results:  make([]Result, len(resp.Results)),
		Assisted: resp.Mode == mode.Assisted,
		Terms:    resp.Terms,
		Total:    resp.Total,
		Dropped:  resp.Dropped,
	}
	for i := range resp.Results {
		sol := resp.Results[i].Solution()
		res.Results[i] = Result{Solution: solutionFromDomain(&sol), Score: resp.Results[i].RelevanceScore()}
	}
	return res, nil
}

// SearchGrouped runs Search and groups the matches by division.
func (c *Client) SearchGrouped(ctx context.Context, q Query) (groups []Group, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_grouped", start, err) }()

	req, err := q.request()
	if err != nil {
		return nil, err
	}
	resp, err := c.search.Grouped(ctx, &req)
	if err != nil {
		return nil, err
	}
	return groupsFromDomain(resp.Groups), nil
}

func (q Query) request() (request.Request, error) {
	m := mode.Keyword
	if q.Assisted {
		m = mode.Assisted
	}
	facets := filter.NewFacets(q.Categories, q.Regions, q.Verticals, q.TeamSizes)
	return request.New(q.Text, m, facets, q.Limit)
}

// Solution returns one catalog entry.
func (c *Client) Solution(id string) (Solution, error) {
	sol, err := c.browse.Solution(id)
	if err != nil {
		return Solution{}, err
	}
	return solutionFromDomain(&sol), nil
}

// Related returns the solutions id links to.
func (c *Client) Related(id string) ([]Solution, error) {
	sols, err := c.browse.Related(id)
	if err != nil {
		return nil, err
	}
	return solutionsFromDomain(sols), nil
}

// Divisions lists divisions in display order.
func (c *Client) Divisions() []Division {
	divs := c.browse.Divisions()
	out := make([]Division, len(divs))
	for i, d := range divs {
		out[i] = Division{ID: d.ID(), Code: d.Code(), Label: d.Label()}
	}
	return out
}

// Projects lists reference projects whose name or code contains query.
// An empty query lists every project.
func (c *Client) Projects(query string) []Project {
	ps := c.browse.FilterProjects(query)
	out := make([]Project, len(ps))
	for i := range ps {
		out[i] = projectFromDomain(&ps[i])
	}
	return out
}

// ProjectSolutions returns the catalog solutions a project used.
func (c *Client) ProjectSolutions(id string) ([]Solution, error) {
	sols, err := c.browse.ProjectSolutions(id)
	if err != nil {
		return nil, err
	}
	return solutionsFromDomain(sols), nil
}

// HealthStatus is the aggregated component health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the catalog and the session store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

// Expander suggests catalog terms for a natural-language query.
type Expander interface {
	Expand(ctx context.Context, query string) (Expansion, error)
}

// Expansion is an Expander's answer.
type Expansion struct {
	Terms        []string
	PromptTokens int
	TotalTokens  int
}

// expanderAdapter wraps a public Expander to satisfy domain.Expander.
type expanderAdapter struct {
	inner Expander
}

func (a *expanderAdapter) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	exp, err := a.inner.Expand(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrAssistQuotaExceeded) || errors.Is(err, domain.ErrAssistProviderError) {
			return domain.Expansion{}, fmt.Errorf("expand: %w", err)
		}
		return domain.Expansion{}, fmt.Errorf("expand: %w: %w", domain.ErrAssistProviderError, err)
	}
	return domain.Expansion{
		Terms:        exp.Terms,
		PromptTokens: exp.PromptTokens,
		TotalTokens:  exp.TotalTokens,
	}, nil
}
