package filter

import (
	"net/url"

	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// Deep-link query parameter names.
const (
	ParamVertical = "v"
	ParamCategory = "c"
	ParamProject  = "p"
	ParamQuery    = "q"
)

// ProjectVerticalFunc resolves a project id to its vertical.
type ProjectVerticalFunc func(projectID string) (taxonomy.Vertical, bool)

// DeepLink is the browse state encoded in a shared URL.
type DeepLink struct {
	Facets    Facets
	Query     string
	ProjectID string
}

// FromDeepLink parses ?v=, ?c=, ?p= and ?q= parameters. Unknown verticals,
// categories and projects are ignored. A known project selects its vertical
// and takes precedence over ?v=.
func FromDeepLink(values url.Values, projectVertical ProjectVerticalFunc) DeepLink {
	var link DeepLink

	if v := taxonomy.Vertical(values.Get(ParamVertical)); v.IsValid() {
		link.Facets = link.Facets.WithVertical(v)
	}
	if c := taxonomy.Category(values.Get(ParamCategory)); c.IsValid() {
		link.Facets = link.Facets.WithCategory(c)
	}
	if p := values.Get(ParamProject); p != "" && projectVertical != nil {
		if v, ok := projectVertical(p); ok {
			link.ProjectID = p
			if v.IsValid() {
				link.Facets = link.Facets.WithVertical(v)
			}
		}
	}
	link.Query = values.Get(ParamQuery)
	return link
}
