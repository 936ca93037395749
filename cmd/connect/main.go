package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/divergeconnect/connect/internal/catalog"
	"github.com/divergeconnect/connect/internal/config"
	"github.com/divergeconnect/connect/internal/db"
	"github.com/divergeconnect/connect/internal/db/memory"
	dbRedis "github.com/divergeconnect/connect/internal/db/redis"
	"github.com/divergeconnect/connect/internal/domain"
	logpkg "github.com/divergeconnect/connect/internal/logger"
	"github.com/divergeconnect/connect/internal/metrics"
	"github.com/divergeconnect/connect/internal/ranking"
	"github.com/divergeconnect/connect/internal/repository/assistcache"
	budgetrepo "github.com/divergeconnect/connect/internal/repository/budget"
	historyrepo "github.com/divergeconnect/connect/internal/repository/history"
	selectionrepo "github.com/divergeconnect/connect/internal/repository/selection"
	chiTransport "github.com/divergeconnect/connect/internal/transport/chi"
	openaiAssist "github.com/divergeconnect/connect/internal/transport/openai"
	assistuc "github.com/divergeconnect/connect/internal/usecase/assist"
	cataloguc "github.com/divergeconnect/connect/internal/usecase/catalog"
	healthuc "github.com/divergeconnect/connect/internal/usecase/health"
	historyuc "github.com/divergeconnect/connect/internal/usecase/history"
	searchuc "github.com/divergeconnect/connect/internal/usecase/search"
	selectionuc "github.com/divergeconnect/connect/internal/usecase/selection"
	usageuc "github.com/divergeconnect/connect/internal/usecase/usage"
	"github.com/divergeconnect/connect/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting connect API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("assist_enabled", cfg.Assist.Enabled()),
	)

	store, err := newStore(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Session store not ready", zap.Error(err))
	}
	logger.Info("Connected to session store")

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("solutions", cat.Len()),
		zap.Int("divisions", len(cat.Divisions())),
		zap.Int("projects", len(cat.Projects())),
	)

	// Explicit registration, no init().
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterAssistMetrics()

	scorer := ranking.Default()

	var (
		expander domain.Expander
		budget   *assistuc.BudgetTracker
		checker  healthuc.AssistChecker
	)
	if cfg.Assist.Enabled() {
		budget = newBudget(ctx, cfg.Assist, store, logger)
		var base *openaiAssist.Expander
		expander, base = buildExpander(cfg.Assist, searchuc.VocabularyFor(scorer.Keywords()), store, budget, logger)
		checker = base
		logger.Info("Assist provider configured",
			zap.String("provider", cfg.Assist.Provider),
			zap.String("model", cfg.Assist.Model),
		)
	}

	// Pass nil interfaces, not typed nil pointers.
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionTTL := time.Duration(cfg.Store.SessionTTLHours) * time.Hour
	selectionSvc := selectionuc.New(selectionrepo.New(store, sessionTTL), cat, cfg.Selection.MaxItems, logger)
	go logSelectionChanges(runCtx, selectionSvc, logger)

	server := chiTransport.NewServer(chiTransport.Services{
		Search:    searchuc.New(cat, scorer, expander),
		Catalog:   cataloguc.New(cat),
		Selection: selectionSvc,
		History:   historyuc.New(historyrepo.New(store, sessionTTL), cfg.History.MaxItems, logger),
		Usage:     usageuc.New(budgetReader),
		Health:    healthuc.New(cat, store, checker),
	}, cfg.Public.BaseURL, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	if err := serve(runCtx, srv, time.Duration(cfg.HTTP.ShutdownSec)*time.Second, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped gracefully")
}

// serve runs srv until ctx is cancelled, then drains it within grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newStore(cfg config.StoreConfig) (db.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(), nil
	case "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Password:   cfg.Password,
			DB:         cfg.DB,
			Standalone: cfg.Standalone,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Bundled()
	}
	return catalog.Load(path)
}

// newBudget returns nil when no token limit is configured.
func newBudget(ctx context.Context, cfg config.AssistConfig, store db.Store, logger *zap.Logger) *assistuc.BudgetTracker {
	b := cfg.Budget
	if b.DailyTokenLimit <= 0 && b.MonthlyTokenLimit <= 0 {
		return nil
	}
	action := assistuc.BudgetActionWarn
	if b.Action == string(assistuc.BudgetActionReject) {
		action = assistuc.BudgetActionReject
	}
	tracker := assistuc.NewBudgetTracker(cfg.Provider, b.DailyTokenLimit, b.MonthlyTokenLimit, action, logger)
	return tracker.WithStore(ctx, budgetrepo.New(store, 48*time.Hour, 62*24*time.Hour))
}

// buildExpander assembles the decorator chain: OpenAI -> Instrumented -> Cached.
// It also returns the base provider for health checks.
func buildExpander(
	cfg config.AssistConfig,
	vocabulary []string,
	store db.Store,
	budget *assistuc.BudgetTracker,
	logger *zap.Logger,
) (domain.Expander, *openaiAssist.Expander) {
	base := openaiAssist.NewExpander(&openaiAssist.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTerms:    cfg.MaxTerms,
		Temperature: cfg.Temperature,
		Provider:    cfg.Provider,
		Vocabulary:  vocabulary,
		Logger:      logger,
	})

	var checker assistuc.BudgetChecker
	if budget != nil {
		checker = budget
	}
	var expander domain.Expander = assistuc.NewInstrumentedExpander(base, cfg.Provider, cfg.Model, checker, logger)

	// Cache outermost so hits spend no budget.
	ttl := time.Duration(cfg.CacheTTLMin) * time.Minute
	expander = assistcache.New(expander, store, ttl, metrics.AssistCacheTotal, logger)
	return expander, base
}

func logSelectionChanges(ctx context.Context, svc *selectionuc.Service, logger *zap.Logger) {
	for change := range svc.Subscribe(ctx) {
		logger.Debug("Selection changed",
			zap.String("session", change.Session),
			zap.Int("items", len(change.IDs)),
		)
	}
}
