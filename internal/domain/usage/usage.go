package usage

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// IsValid checks if the period is one of the supported values.
func (p Period) IsValid() bool {
	return p == PeriodDay || p == PeriodMonth
}

// Report is the assist token usage for one budget period.
type Report struct {
	provider    string
	period      Period
	periodStart int64
	periodEnd   int64
	limit       int64
	used        int64
}

// NewReport creates a usage report. limit 0 means unlimited.
func NewReport(provider string, period Period, start, end, limit, used int64) Report {
	return Report{
		provider:    provider,
		period:      period,
		periodStart: start,
		periodEnd:   end,
		limit:       limit,
		used:        used,
	}
}

// Provider returns the assist provider name, empty when assist is disabled.
func (r *Report) Provider() string { return r.provider }

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis). Counters reset then.
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// TokensLimit returns the token limit, 0 if unlimited.
func (r *Report) TokensLimit() int64 { return r.limit }

// TokensUsed returns tokens spent in the period.
func (r *Report) TokensUsed() int64 { return r.used }

// TokensRemaining returns tokens left, -1 if unlimited.
func (r *Report) TokensRemaining() int64 {
	if r.limit == 0 {
		return -1
	}
	return max(r.limit-r.used, 0)
}

// IsExhausted reports whether a limited budget has no tokens left.
func (r *Report) IsExhausted() bool {
	return r.limit > 0 && r.used >= r.limit
}
