package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	domhistory "github.com/divergeconnect/connect/internal/domain/history"
	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
	"github.com/divergeconnect/connect/internal/domain/search/request"
	domusage "github.com/divergeconnect/connect/internal/domain/usage"
	"github.com/divergeconnect/connect/internal/transport/api"
	cataloguc "github.com/divergeconnect/connect/internal/usecase/catalog"
	healthuc "github.com/divergeconnect/connect/internal/usecase/health"
	historyuc "github.com/divergeconnect/connect/internal/usecase/history"
	searchuc "github.com/divergeconnect/connect/internal/usecase/search"
	selectionuc "github.com/divergeconnect/connect/internal/usecase/selection"
	usageuc "github.com/divergeconnect/connect/internal/usecase/usage"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services groups the use cases served over HTTP.
type Services struct {
	Search    *searchuc.Service
	Catalog   *cataloguc.Service
	Selection *selectionuc.Service
	History   *historyuc.Service
	Usage     *usageuc.Service
	Health    *healthuc.Service
}

// Server implements api.ServerInterface.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	selection     *selectionuc.Service
	history       *historyuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	baseURL       string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. baseURL is the public origin used in share links.
func NewServer(svc Services, baseURL string, logger *zap.Logger) *Server {
	s := &Server{
		search:    svc.Search,
		catalog:   svc.Catalog,
		selection: svc.Selection,
		history:   svc.History,
		usage:     svc.Usage,
		health:    svc.Health,
		baseURL:   baseURL,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSolutionNotFound, http.StatusNotFound, api.ErrorResponseCodeSolutionNotFound),
		sentinelHandler(domain.ErrProjectNotFound, http.StatusNotFound, api.ErrorResponseCodeProjectNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, api.ErrorResponseCodeBadRequest),
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, api.ErrorResponseCodeInvalidSession),
		sentinelHandler(domain.ErrInvalidHistoryItem, http.StatusBadRequest, api.ErrorResponseCodeInvalidHistoryItem),
		sentinelHandler(domain.ErrSelectionFull, http.StatusConflict, api.ErrorResponseCodeSelectionFull),
		sentinelHandler(domain.ErrAssistUnavailable,
			http.StatusServiceUnavailable, api.ErrorResponseCodeAssistUnavailable),
		sentinelHandler(domain.ErrAssistQuotaExceeded,
			http.StatusPaymentRequired, api.ErrorResponseCodeAssistQuotaExceeded),
		sentinelHandler(domain.ErrAssistProviderError,
			http.StatusBadGateway, api.ErrorResponseCodeAssistProviderError),
	}
	return s
}

// SearchSolutions handles GET /solutions.
func (s *Server) SearchSolutions(w http.ResponseWriter, r *http.Request, params api.SearchParams) {
	req, err := searchRequestFromParams(params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := scoredToAPI(resp.Results)
	if derefBool(params.Explain) {
		for i, e := range s.search.Explain(req.Query(), resp.Results) {
			contributions := contributionsToAPI(e.Contributions)
			items[i].Contributions = &contributions
		}
	}

	writeJSON(w, http.StatusOK, api.SearchResponse{
		Items:   items,
		Mode:    string(resp.Mode),
		Terms:   resp.Terms,
		Total:   resp.Total,
		Dropped: resp.Dropped,
	})
}

// SearchSolutionsGrouped handles GET /solutions/grouped.
func (s *Server) SearchSolutionsGrouped(w http.ResponseWriter, r *http.Request, params api.SearchParams) {
	req, err := searchRequestFromParams(params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Grouped(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.GroupedSearchResponse{
		Groups:  groupsToAPI(resp.Groups),
		Mode:    string(resp.Mode),
		Terms:   resp.Terms,
		Total:   resp.Total,
		Dropped: resp.Dropped,
	})
}

// GetSolution handles GET /solutions/{id}.
func (s *Server) GetSolution(w http.ResponseWriter, _ *http.Request, id string) {
	sol, err := s.catalog.Solution(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solutionToAPI(&sol))
}

// GetRelatedSolutions handles GET /solutions/{id}/related.
func (s *Server) GetRelatedSolutions(w http.ResponseWriter, _ *http.Request, id string) {
	sols, err := s.catalog.Related(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.SolutionListResponse{Items: solutionsToAPI(sols)})
}

// ListDivisions handles GET /divisions.
func (s *Server) ListDivisions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.DivisionListResponse{Items: divisionsToAPI(s.catalog.Divisions())})
}

// GetFacets handles GET /facets.
func (s *Server) GetFacets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, facetsToAPI(s.catalog.Facets()))
}

// GetVerticalStats handles GET /stats/verticals.
func (s *Server) GetVerticalStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.catalog.VerticalStats()
	items := make([]api.VerticalStat, len(stats))
	for i, st := range stats {
		items[i] = api.VerticalStat{Vertical: string(st.Vertical), Solutions: st.Solutions, Projects: st.Projects}
	}
	writeJSON(w, http.StatusOK, api.VerticalStatsResponse{Items: items})
}

// GetCategoryStats handles GET /stats/categories.
func (s *Server) GetCategoryStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.catalog.CategoryStats()
	items := make([]api.CategoryStat, len(stats))
	for i, st := range stats {
		items[i] = api.CategoryStat{Category: string(st.Category), Solutions: st.Solutions}
	}
	writeJSON(w, http.StatusOK, api.CategoryStatsResponse{Items: items})
}

// ListProjects handles GET /projects.
func (s *Server) ListProjects(w http.ResponseWriter, _ *http.Request, params api.ListProjectsParams) {
	projects := s.catalog.FilterProjects(derefString(params.Q))
	writeJSON(w, http.StatusOK, api.ProjectListResponse{Items: projectsToAPI(projects)})
}

// GetProject handles GET /projects/{id}.
func (s *Server) GetProject(w http.ResponseWriter, _ *http.Request, id string) {
	p, err := s.catalog.Project(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectToAPI(&p))
}

// GetProjectSolutions handles GET /projects/{id}/solutions.
func (s *Server) GetProjectSolutions(w http.ResponseWriter, _ *http.Request, id string) {
	sols, err := s.catalog.ProjectSolutions(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.SolutionListResponse{Items: solutionsToAPI(sols)})
}

// ResolveDeepLink handles GET /deeplink?v=&c=&p=&q=.
func (s *Server) ResolveDeepLink(w http.ResponseWriter, r *http.Request) {
	link := s.catalog.DeepLink(r.URL.Query())

	req, err := request.New(link.Query, mode.Keyword, link.Facets, 0)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var selected api.SelectedFacets
	for _, c := range link.Facets.Categories() {
		selected.Categories = append(selected.Categories, string(c))
	}
	for _, v := range link.Facets.Verticals() {
		selected.Verticals = append(selected.Verticals, string(v))
	}

	writeJSON(w, http.StatusOK, api.DeepLinkResponse{
		Facets:    selected,
		Query:     link.Query,
		ProjectId: link.ProjectID,
		Items:     scoredToAPI(resp.Results),
		Total:     resp.Total,
	})
}

// GetSelection handles GET /sessions/{session}/selection.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request, session string) {
	sols, err := s.selection.Get(r.Context(), session)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	ids := make([]string, len(sols))
	for i := range sols {
		ids[i] = sols[i].ID()
	}
	writeJSON(w, http.StatusOK, api.SelectionResponse{Ids: ids, Items: solutionsToAPI(sols)})
}

// ClearSelection handles DELETE /sessions/{session}/selection.
func (s *Server) ClearSelection(w http.ResponseWriter, r *http.Request, session string) {
	if err := s.selection.Clear(r.Context(), session); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSelection handles POST /sessions/{session}/selection/{id}.
func (s *Server) ToggleSelection(w http.ResponseWriter, r *http.Request, session, id string) {
	selected, err := s.selection.Toggle(r.Context(), session, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ToggleSelectionResponse{Id: id, Selected: selected})
}

// MergeSelection handles POST /sessions/{session}/selection/merge.
func (s *Server) MergeSelection(w http.ResponseWriter, r *http.Request, session string) {
	var req api.MergeSelectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ids := req.Ids
	if len(ids) == 0 && req.Solutions != "" {
		ids = selectionuc.ParseShareLink(req.Solutions)
	}

	merged, err := s.selection.Merge(r.Context(), session, ids)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if merged == nil {
		merged = []string{}
	}
	writeJSON(w, http.StatusOK, api.MergeSelectionResponse{Ids: merged})
}

// GetSelectionGrouped handles GET /sessions/{session}/selection/grouped.
func (s *Server) GetSelectionGrouped(w http.ResponseWriter, r *http.Request, session string) {
	groups, err := s.selection.Grouped(r.Context(), session)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.GroupedSelectionResponse{Groups: groupsToAPI(groups)})
}

// GetSelectionShareLink handles GET /sessions/{session}/selection/share.
func (s *Server) GetSelectionShareLink(w http.ResponseWriter, r *http.Request, session string) {
	link, err := s.selection.ShareLink(r.Context(), session, s.baseURL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.ShareLinkResponse{Url: link})
}

// ExportSelection handles GET /sessions/{session}/selection/export.
func (s *Server) ExportSelection(w http.ResponseWriter, r *http.Request, session string) {
	var buf bytes.Buffer
	if err := s.selection.ExportCSV(r.Context(), session, &buf); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="selected-solutions.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ListHistory handles GET /sessions/{session}/history.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request, session string) {
	items, err := s.history.List(r.Context(), session)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]api.HistoryItem, len(items))
	for i, it := range items {
		out[i] = historyItemToAPI(it)
	}
	writeJSON(w, http.StatusOK, api.HistoryResponse{Items: out})
}

// AddHistory handles POST /sessions/{session}/history.
func (s *Server) AddHistory(w http.ResponseWriter, r *http.Request, session string) {
	var req api.AddHistoryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := s.history.Add(r.Context(), session, domhistory.Type(req.Type), req.Title, req.Path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyItemToAPI(item))
}

// ClearHistory handles DELETE /sessions/{session}/history.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request, session string) {
	if err := s.history.Clear(r.Context(), session); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, _ *http.Request, params api.GetUsageParams) {
	report, err := s.usage.Report(domusage.Period(derefString(params.Period)))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageToAPI(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler writes a 400 JSON error for parameters that failed to bind.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var perr *api.InvalidParamFormatError
	msg := "invalid request"
	if errors.As(err, &perr) {
		msg = "invalid parameter " + perr.ParamName
	}
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, msg)
}

func searchRequestFromParams(p api.SearchParams) (request.Request, error) {
	facets := filter.NewFacets(derefSlice(p.C), derefSlice(p.R), derefSlice(p.V), derefSlice(p.T))
	return request.New(derefString(p.Q), mode.Mode(derefString(p.Mode)), facets, derefInt(p.Limit))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSolutionNotFound,
		domain.ErrProjectNotFound,
		domain.ErrInvalidRequest,
		domain.ErrInvalidSession,
		domain.ErrInvalidHistoryItem,
		domain.ErrSelectionFull,
		domain.ErrAssistUnavailable,
		domain.ErrAssistQuotaExceeded,
		domain.ErrAssistProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}
