package usage

import (
	"fmt"
	"time"

	"github.com/divergeconnect/connect/internal/domain"
	domusage "github.com/divergeconnect/connect/internal/domain/usage"
)

// Service reports assist token usage.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil when assist or its budget is disabled.
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// Report builds the usage report for period. An empty period means the current month.
func (s *Service) Report(period domusage.Period) (domusage.Report, error) {
	if period == "" {
		period = domusage.PeriodMonth
	}
	if !period.IsValid() {
		return domusage.Report{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidRequest, period)
	}

	now := s.now().UTC()
	var start, end time.Time
	var limit, used int64
	var provider string

	switch period {
	case domusage.PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
		if s.br != nil {
			limit, used = s.br.DailyLimit(), s.br.DailyUsed()
		}
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		if s.br != nil {
			limit, used = s.br.MonthlyLimit(), s.br.MonthlyUsed()
		}
	}
	if s.br != nil {
		provider = s.br.Provider()
	}

	return domusage.NewReport(provider, period, start.UnixMilli(), end.UnixMilli(), limit, used), nil
}
