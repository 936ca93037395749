package request

import (
	"fmt"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 512
	// MaxLimit caps the number of returned results. A limit of 0 means all.
	MaxLimit = 200
)

// Request is a validated catalog query.
type Request struct {
	query      string
	searchMode mode.Mode
	facets     filter.Facets
	limit      int
}

// New validates and normalizes search parameters.
// An empty query is allowed and browses the whole catalog. Mode defaults to keyword.
func New(query string, m mode.Mode, facets filter.Facets, limit int) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = mode.Keyword
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be non-negative", domain.ErrInvalidRequest)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:      query,
		searchMode: m,
		facets:     facets,
		limit:      limit,
	}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Facets returns the facet filter.
func (r *Request) Facets() filter.Facets { return r.facets }

// Limit returns the maximum results to return, 0 for all.
func (r *Request) Limit() int { return r.limit }
