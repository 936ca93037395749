package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// SearchParams are the query parameters of GET /solutions and GET /solutions/grouped.
type SearchParams struct {
	Q     *string   `form:"q,omitempty" json:"q,omitempty"`
	Mode  *string   `form:"mode,omitempty" json:"mode,omitempty"`
	C     *[]string `form:"c,omitempty" json:"c,omitempty"`
	R     *[]string `form:"r,omitempty" json:"r,omitempty"`
	V     *[]string `form:"v,omitempty" json:"v,omitempty"`
	T     *[]string `form:"t,omitempty" json:"t,omitempty"`
	Limit *int      `form:"limit,omitempty" json:"limit,omitempty"`
	// Explain attaches per-rule score contributions to each item.
	Explain *bool `form:"explain,omitempty" json:"explain,omitempty"`
}

// ListProjectsParams are the query parameters of GET /projects.
type ListProjectsParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// GetUsageParams are the query parameters of GET /usage.
type GetUsageParams struct {
	Period *string `form:"period,omitempty" json:"period,omitempty"`
}

// ServerInterface is implemented by the HTTP handlers.
type ServerInterface interface {
	HealthCheck(w http.ResponseWriter, r *http.Request)
	Metrics(w http.ResponseWriter, r *http.Request)
	GetUsage(w http.ResponseWriter, r *http.Request, params GetUsageParams)

	SearchSolutions(w http.ResponseWriter, r *http.Request, params SearchParams)
	SearchSolutionsGrouped(w http.ResponseWriter, r *http.Request, params SearchParams)
	GetSolution(w http.ResponseWriter, r *http.Request, id string)
	GetRelatedSolutions(w http.ResponseWriter, r *http.Request, id string)

	ListDivisions(w http.ResponseWriter, r *http.Request)
	GetFacets(w http.ResponseWriter, r *http.Request)
	GetVerticalStats(w http.ResponseWriter, r *http.Request)
	GetCategoryStats(w http.ResponseWriter, r *http.Request)

	ListProjects(w http.ResponseWriter, r *http.Request, params ListProjectsParams)
	GetProject(w http.ResponseWriter, r *http.Request, id string)
	GetProjectSolutions(w http.ResponseWriter, r *http.Request, id string)

	ResolveDeepLink(w http.ResponseWriter, r *http.Request)

	GetSelection(w http.ResponseWriter, r *http.Request, session string)
	ClearSelection(w http.ResponseWriter, r *http.Request, session string)
	ToggleSelection(w http.ResponseWriter, r *http.Request, session string, id string)
	MergeSelection(w http.ResponseWriter, r *http.Request, session string)
	GetSelectionGrouped(w http.ResponseWriter, r *http.Request, session string)
	GetSelectionShareLink(w http.ResponseWriter, r *http.Request, session string)
	ExportSelection(w http.ResponseWriter, r *http.Request, session string)

	ListHistory(w http.ResponseWriter, r *http.Request, session string)
	AddHistory(w http.ResponseWriter, r *http.Request, session string)
	ClearHistory(w http.ResponseWriter, r *http.Request, session string)
}

// MiddlewareFunc wraps a single route handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// wrapper binds parameters and dispatches to the ServerInterface.
type wrapper struct {
	handler          ServerInterface
	middlewares      []MiddlewareFunc
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts all routes on a new chi router.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions mounts all routes on options.BaseRouter (a new router if nil).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	w := &wrapper{
		handler:          si,
		middlewares:      options.Middlewares,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}
	base := options.BaseURL

	r.Get(base+"/health", w.plain(si.HealthCheck))
	r.Get(base+"/metrics", w.plain(si.Metrics))
	r.Get(base+"/usage", w.getUsage)

	r.Get(base+"/solutions", w.search(si.SearchSolutions))
	r.Get(base+"/solutions/grouped", w.search(si.SearchSolutionsGrouped))
	r.Get(base+"/solutions/{id}", w.withPath("id", si.GetSolution))
	r.Get(base+"/solutions/{id}/related", w.withPath("id", si.GetRelatedSolutions))

	r.Get(base+"/divisions", w.plain(si.ListDivisions))
	r.Get(base+"/facets", w.plain(si.GetFacets))
	r.Get(base+"/stats/verticals", w.plain(si.GetVerticalStats))
	r.Get(base+"/stats/categories", w.plain(si.GetCategoryStats))

	r.Get(base+"/projects", w.listProjects)
	r.Get(base+"/projects/{id}", w.withPath("id", si.GetProject))
	r.Get(base+"/projects/{id}/solutions", w.withPath("id", si.GetProjectSolutions))

	r.Get(base+"/deeplink", w.plain(si.ResolveDeepLink))

	r.Get(base+"/sessions/{session}/selection", w.withPath("session", si.GetSelection))
	r.Delete(base+"/sessions/{session}/selection", w.withPath("session", si.ClearSelection))
	r.Post(base+"/sessions/{session}/selection/merge", w.withPath("session", si.MergeSelection))
	r.Post(base+"/sessions/{session}/selection/{id}", w.toggleSelection)
	r.Get(base+"/sessions/{session}/selection/grouped", w.withPath("session", si.GetSelectionGrouped))
	r.Get(base+"/sessions/{session}/selection/share", w.withPath("session", si.GetSelectionShareLink))
	r.Get(base+"/sessions/{session}/selection/export", w.withPath("session", si.ExportSelection))

	r.Get(base+"/sessions/{session}/history", w.withPath("session", si.ListHistory))
	r.Post(base+"/sessions/{session}/history", w.withPath("session", si.AddHistory))
	r.Delete(base+"/sessions/{session}/history", w.withPath("session", si.ClearHistory))

	return r
}

func (w *wrapper) serve(rw http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	var handler http.Handler = h
	for _, mw := range w.middlewares {
		handler = mw(handler)
	}
	handler.ServeHTTP(rw, r)
}

func (w *wrapper) plain(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		w.serve(rw, r, fn)
	}
}

func (w *wrapper) withPath(name string, fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		value, err := bindPath(name, chi.URLParam(r, name))
		if err != nil {
			w.errorHandlerFunc(rw, r, err)
			return
		}
		w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) {
			fn(rw, r, value)
		})
	}
}

func (w *wrapper) toggleSelection(rw http.ResponseWriter, r *http.Request) {
	session, err := bindPath("session", chi.URLParam(r, "session"))
	if err != nil {
		w.errorHandlerFunc(rw, r, err)
		return
	}
	id, err := bindPath("id", chi.URLParam(r, "id"))
	if err != nil {
		w.errorHandlerFunc(rw, r, err)
		return
	}
	w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) {
		w.handler.ToggleSelection(rw, r, session, id)
	})
}

func (w *wrapper) search(fn func(http.ResponseWriter, *http.Request, SearchParams)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		params, err := BindSearchParams(r)
		if err != nil {
			w.errorHandlerFunc(rw, r, err)
			return
		}
		w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) {
			fn(rw, r, params)
		})
	}
}

func (w *wrapper) listProjects(rw http.ResponseWriter, r *http.Request) {
	var params ListProjectsParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) {
		w.handler.ListProjects(rw, r, params)
	})
}

func (w *wrapper) getUsage(rw http.ResponseWriter, r *http.Request) {
	var params GetUsageParams
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &params.Period); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "period", Err: err})
		return
	}
	w.serve(rw, r, func(rw http.ResponseWriter, r *http.Request) {
		w.handler.GetUsage(rw, r, params)
	})
}

// BindSearchParams binds search query parameters. Facets are form/explode, so
// ?c=Robotics&c=Safety and repeated keys are both accepted.
func BindSearchParams(r *http.Request) (SearchParams, error) {
	var params SearchParams
	query := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"q", &params.Q},
		{"mode", &params.Mode},
		{"c", &params.C},
		{"r", &params.R},
		{"v", &params.V},
		{"t", &params.T},
		{"limit", &params.Limit},
		{"explain", &params.Explain},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			return SearchParams{}, &InvalidParamFormatError{ParamName: b.name, Err: err}
		}
	}
	return params, nil
}

func bindPath(name, raw string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, raw, &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", &InvalidParamFormatError{ParamName: name, Err: err}
	}
	return value, nil
}
