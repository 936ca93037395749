package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
	"github.com/divergeconnect/connect/internal/domain/search/request"
	"github.com/divergeconnect/connect/internal/domain/search/result"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
	"github.com/divergeconnect/connect/internal/logger"
	"github.com/divergeconnect/connect/internal/metrics"
	"github.com/divergeconnect/connect/internal/ranking"
)

// Fallback reasons reported when an assisted search is served in keyword mode.
const (
	FallbackUnavailable   = "unavailable"
	FallbackQuota         = "quota"
	FallbackProviderError = "provider_error"
)

// Response is a ranked, filtered result list.
type Response struct {
	Results []result.ScoredSolution
	// Mode is the mode actually served; assisted requests fall back to keyword.
	Mode mode.Mode
	// Terms are the expansion terms used in assisted mode.
	Terms []string
	// Total counts matches before the limit was applied.
	Total int
	// Dropped lists facet values that were ignored.
	Dropped []string
}

// GroupedResponse is a Response bucketed by division.
type GroupedResponse struct {
	Groups  []ranking.Group
	Mode    mode.Mode
	Terms   []string
	Total   int
	Dropped []string
}

// Service runs catalog searches in keyword or assisted mode.
type Service struct {
	catalog    Catalog
	scorer     *ranking.Scorer
	expander   Expander
	vocabulary map[string]struct{}
}

// New creates a search service. expander can be nil when assisted search is disabled.
func New(catalog Catalog, scorer *ranking.Scorer, expander Expander) *Service {
	if scorer == nil {
		scorer = ranking.Default()
	}
	return &Service{
		catalog:    catalog,
		scorer:     scorer,
		expander:   expander,
		vocabulary: vocabulary(scorer.Keywords()),
	}
}

// Vocabulary returns the terms an expander may suggest.
func (s *Service) Vocabulary() []string {
	return VocabularyFor(s.scorer.Keywords())
}

// Explain breaks down the keyword score of each result for query.
func (s *Service) Explain(query string, results []result.ScoredSolution) []ranking.Explanation {
	out := make([]ranking.Explanation, len(results))
	for i := range results {
		sol := results[i].Solution()
		out[i] = s.scorer.Explain(query, &sol)
	}
	return out
}

// Search ranks the catalog for req, applies its facets and limit.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	start := time.Now()
	ctx = logger.With(ctx, zap.String("search_mode", string(req.Mode())))

	results, served, terms := s.rank(ctx, req)

	facets := req.Facets()
	if !facets.IsEmpty() {
		filtered := results[:0:0]
		for i := range results {
			sol := results[i].Solution()
			if facets.Match(&sol) {
				filtered = append(filtered, results[i])
			}
		}
		results = filtered
	}

	total := len(results)
	if req.Limit() > 0 && len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), string(served)).Inc()
	metrics.SearchResults.WithLabelValues(string(served)).Observe(float64(len(results)))
	metrics.SearchDuration.WithLabelValues(string(served)).Observe(time.Since(start).Seconds())

	return Response{
		Results: results,
		Mode:    served,
		Terms:   terms,
		Total:   total,
		Dropped: facets.Dropped(),
	}, nil
}

// Grouped runs Search and buckets the results by division.
func (s *Service) Grouped(ctx context.Context, req *request.Request) (GroupedResponse, error) {
	resp, err := s.Search(ctx, req)
	if err != nil {
		return GroupedResponse{}, err
	}
	return GroupedResponse{
		Groups:  ranking.GroupByDivision(result.Solutions(resp.Results), s.catalog.Divisions()),
		Mode:    resp.Mode,
		Terms:   resp.Terms,
		Total:   resp.Total,
		Dropped: resp.Dropped,
	}, nil
}

// rank scores the catalog and, in assisted mode, appends expansion matches.
func (s *Service) rank(ctx context.Context, req *request.Request) ([]result.ScoredSolution, mode.Mode, []string) {
	solutions := s.catalog.Solutions()
	direct := s.scorer.SearchScored(req.Query(), solutions)

	if req.Mode() != mode.Assisted || strings.TrimSpace(req.Query()) == "" {
		return direct, mode.Keyword, nil
	}

	log := logger.FromContext(ctx)
	if s.expander == nil {
		log.Warn("Assisted search requested but no provider configured")
		metrics.SearchFallbackTotal.WithLabelValues(FallbackUnavailable).Inc()
		return direct, mode.Keyword, nil
	}

	exp, err := s.expander.Expand(ctx, req.Query())
	if err != nil {
		reason := FallbackProviderError
		if errors.Is(err, domain.ErrAssistQuotaExceeded) {
			reason = FallbackQuota
		}
		log.Warn("Assisted search failed, serving keyword results",
			zap.String("reason", reason),
			zap.Error(err),
		)
		metrics.SearchFallbackTotal.WithLabelValues(reason).Inc()
		return direct, mode.Keyword, nil
	}

	terms := knownTerms(exp.Terms, s.vocabulary)
	if len(terms) < len(exp.Terms) {
		log.Debug("Dropped unknown expansion terms",
			zap.Strings("suggested", exp.Terms),
			zap.Strings("kept", terms),
		)
	}

	expanded := make([][]result.ScoredSolution, 0, len(terms))
	for _, t := range terms {
		expanded = append(expanded, s.scorer.SearchScored(t, solutions))
	}
	return appendExpanded(direct, expanded), mode.Assisted, terms
}

func vocabulary(keywords ranking.KeywordTable) map[string]struct{} {
	list := VocabularyFor(keywords)
	out := make(map[string]struct{}, len(list))
	for _, t := range list {
		out[t] = struct{}{}
	}
	return out
}

// VocabularyFor returns the terms an expander may suggest for keywords:
// keywords followed by lower-cased category, vertical and region names, without duplicates.
func VocabularyFor(keywords ranking.KeywordTable) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(t string) {
		t = strings.ToLower(t)
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, k := range keywords.Vocabulary() {
		add(k)
	}
	for _, c := range taxonomy.Categories() {
		add(string(c))
	}
	for _, v := range taxonomy.Verticals() {
		add(string(v))
	}
	for _, r := range taxonomy.Regions() {
		add(string(r))
	}
	return out
}
