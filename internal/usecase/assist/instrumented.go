package assist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedExpander wraps an Expander with budget enforcement and logging.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
type InstrumentedExpander struct {
	inner    domain.Expander
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedExpander wraps an expander with budget and observability.
func NewInstrumentedExpander(
	inner domain.Expander, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedExpander {
	return &InstrumentedExpander{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Expand checks the budget, delegates to the inner expander and records usage.
func (p *InstrumentedExpander) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Assist budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return domain.Expansion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	exp, err := p.inner.Expand(ctx, query)
	duration := time.Since(start)

	if err != nil {
		p.logger.Error("Assist request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Expansion{}, fmt.Errorf("expand: %w", err)
	}

	if p.budget != nil && exp.TotalTokens > 0 {
		p.budget.Record(int64(exp.TotalTokens))
		gauge := metrics.AssistBudgetTokensRemaining
		gauge.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		gauge.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Assist request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("terms", len(exp.Terms)),
		zap.Int("prompt_tokens", exp.PromptTokens),
		zap.Int("total_tokens", exp.TotalTokens),
	)
	return exp, nil
}
