// Package api holds the HTTP wire types and the chi route wrapper that binds
// request parameters before calling a ServerInterface.
package api

import "time"

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest          ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized        ErrorResponseCode = "unauthorized"
	ErrorResponseCodeSolutionNotFound    ErrorResponseCode = "solution_not_found"
	ErrorResponseCodeProjectNotFound     ErrorResponseCode = "project_not_found"
	ErrorResponseCodeInvalidSession      ErrorResponseCode = "invalid_session"
	ErrorResponseCodeInvalidHistoryItem  ErrorResponseCode = "invalid_history_item"
	ErrorResponseCodeSelectionFull       ErrorResponseCode = "selection_full"
	ErrorResponseCodeAssistUnavailable   ErrorResponseCode = "assist_unavailable"
	ErrorResponseCodeAssistQuotaExceeded ErrorResponseCode = "assist_quota_exceeded"
	ErrorResponseCodeAssistProviderError ErrorResponseCode = "assist_provider_error"
	ErrorResponseCodeInternalError       ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Contact is a vendor contact.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Solution is a catalog record.
type Solution struct {
	Id                 string   `json:"id"`
	Name               string   `json:"name"`
	Tagline            string   `json:"tagline"`
	Description        string   `json:"description,omitempty"`
	Categories         []string `json:"categories"`
	Regions            []string `json:"regions"`
	Verticals          []string `json:"verticals"`
	Features           []string `json:"features,omitempty"`
	UseCases           []string `json:"use_cases,omitempty"`
	PrimaryDivision    string   `json:"primary_division"`
	SecondaryDivisions []string `json:"secondary_divisions,omitempty"`
	BaseScore          int      `json:"base_score"`
	TeamSize           string   `json:"team_size,omitempty"`
	Location           string   `json:"location,omitempty"`
	Founded            string   `json:"founded,omitempty"`
	Website            string   `json:"website,omitempty"`
	AverageCost        string   `json:"average_cost,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	ProjectsUsed       int      `json:"projects_used,omitempty"`
	Contact            *Contact `json:"contact,omitempty"`
	RelatedIds         []string `json:"related_ids,omitempty"`
}

// Contribution is one scoring rule's share of a relevance score.
type Contribution struct {
	Rule   string `json:"rule"`
	Detail string `json:"detail,omitempty"`
	Points int    `json:"points"`
}

// SearchResultItem is a ranked solution.
type SearchResultItem struct {
	Solution
	Score         int             `json:"score"`
	Contributions *[]Contribution `json:"contributions,omitempty"`
}

// SearchResponse is returned by GET /solutions.
type SearchResponse struct {
	Items   []SearchResultItem `json:"items"`
	Mode    string             `json:"mode"`
	Terms   []string           `json:"terms,omitempty"`
	Total   int                `json:"total"`
	Dropped []string           `json:"dropped,omitempty"`
}

// Placement is a solution listed under a division.
type Placement struct {
	Solution
	Primary bool `json:"primary"`
}

// DivisionGroup is a division bucket of solutions.
type DivisionGroup struct {
	DivisionId string      `json:"division_id"`
	Code       string      `json:"code"`
	Label      string      `json:"label"`
	Solutions  []Placement `json:"solutions"`
}

// GroupedSearchResponse is returned by GET /solutions/grouped.
type GroupedSearchResponse struct {
	Groups  []DivisionGroup `json:"groups"`
	Mode    string          `json:"mode"`
	Terms   []string        `json:"terms,omitempty"`
	Total   int             `json:"total"`
	Dropped []string        `json:"dropped,omitempty"`
}

// SolutionListResponse wraps a plain solution list.
type SolutionListResponse struct {
	Items []Solution `json:"items"`
}

// Division is a construction division.
type Division struct {
	Id     string `json:"id"`
	Code   string `json:"code"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// DivisionListResponse is returned by GET /divisions.
type DivisionListResponse struct {
	Items []Division `json:"items"`
}

// Project is a reference construction project.
type Project struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Vertical    string   `json:"vertical"`
	Status      string   `json:"status,omitempty"`
	Description string   `json:"description,omitempty"`
	SolutionIds []string `json:"solution_ids"`
}

// ProjectListResponse is returned by GET /projects.
type ProjectListResponse struct {
	Items []Project `json:"items"`
}

// FacetsResponse lists selectable facet values.
type FacetsResponse struct {
	Categories []string `json:"categories"`
	Regions    []string `json:"regions"`
	Verticals  []string `json:"verticals"`
	TeamSizes  []string `json:"team_sizes"`
}

// VerticalStat counts solutions and projects for a vertical.
type VerticalStat struct {
	Vertical  string `json:"vertical"`
	Solutions int    `json:"solutions"`
	Projects  int    `json:"projects"`
}

// CategoryStat counts solutions for a category.
type CategoryStat struct {
	Category  string `json:"category"`
	Solutions int    `json:"solutions"`
}

// VerticalStatsResponse is returned by GET /stats/verticals.
type VerticalStatsResponse struct {
	Items []VerticalStat `json:"items"`
}

// CategoryStatsResponse is returned by GET /stats/categories.
type CategoryStatsResponse struct {
	Items []CategoryStat `json:"items"`
}

// SelectedFacets echoes the facets a deep link resolved to.
type SelectedFacets struct {
	Categories []string `json:"categories,omitempty"`
	Verticals  []string `json:"verticals,omitempty"`
}

// DeepLinkResponse is returned by GET /deeplink.
type DeepLinkResponse struct {
	Facets    SelectedFacets     `json:"facets"`
	Query     string             `json:"query,omitempty"`
	ProjectId string             `json:"project_id,omitempty"`
	Items     []SearchResultItem `json:"items"`
	Total     int                `json:"total"`
}

// SelectionResponse is a session shortlist.
type SelectionResponse struct {
	Ids   []string   `json:"ids"`
	Items []Solution `json:"items"`
}

// ToggleSelectionResponse reports the state after a toggle.
type ToggleSelectionResponse struct {
	Id       string `json:"id"`
	Selected bool   `json:"selected"`
}

// MergeSelectionRequest carries ids from a shared link, either as a list or
// as the raw comma-separated ?solutions= value.
type MergeSelectionRequest struct {
	Ids       []string `json:"ids,omitempty"`
	Solutions string   `json:"solutions,omitempty"`
}

// MergeSelectionResponse is the merged shortlist.
type MergeSelectionResponse struct {
	Ids []string `json:"ids"`
}

// GroupedSelectionResponse is the shortlist bucketed by division.
type GroupedSelectionResponse struct {
	Groups []DivisionGroup `json:"groups"`
}

// ShareLinkResponse carries a checkout link for the shortlist.
type ShareLinkResponse struct {
	Url string `json:"url"`
}

// HistoryItem is a visited page.
type HistoryItem struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// AddHistoryRequest records a visit.
type AddHistoryRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// HistoryResponse is a session history, newest first.
type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
}

// UsageResponse is returned by GET /usage.
type UsageResponse struct {
	Provider        string    `json:"provider,omitempty"`
	Period          string    `json:"period"`
	PeriodStartAt   time.Time `json:"period_start_at"`
	PeriodEndAt     time.Time `json:"period_end_at"`
	TokensLimit     int64     `json:"tokens_limit"`
	TokensUsed      int64     `json:"tokens_used"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
}

// HealthResponseStatus is the overall service status.
type HealthResponseStatus string

// HealthResponseChecks is a single component result.
type HealthResponseChecks string

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}
