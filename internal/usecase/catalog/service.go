package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// VerticalStat summarizes one market vertical.
type VerticalStat struct {
	Vertical  taxonomy.Vertical
	Solutions int
	Projects  int
}

// CategoryStat summarizes one technology category.
type CategoryStat struct {
	Category  taxonomy.Category
	Solutions int
}

// FacetOptions lists every selectable facet value.
type FacetOptions struct {
	Categories []taxonomy.Category
	Regions    []taxonomy.Region
	Verticals  []taxonomy.Vertical
	TeamSizes  []string
}

// Service answers browse queries over the loaded catalog.
type Service struct {
	catalog Reader
}

// New creates a catalog browse service.
func New(catalog Reader) *Service {
	return &Service{catalog: catalog}
}

// Solution returns the solution with id.
func (s *Service) Solution(id string) (solution.Solution, error) {
	sol, ok := s.catalog.Solution(id)
	if !ok {
		return solution.Solution{}, fmt.Errorf("solution %q: %w", id, domain.ErrSolutionNotFound)
	}
	return sol, nil
}

// Related returns the solutions referenced by id's related ids, in catalog order.
func (s *Service) Related(id string) ([]solution.Solution, error) {
	sol, err := s.Solution(id)
	if err != nil {
		return nil, err
	}
	related := make(map[string]struct{})
	for _, r := range sol.RelatedIDs() {
		if r != id {
			related[r] = struct{}{}
		}
	}

	all := s.catalog.Solutions()
	out := make([]solution.Solution, 0, len(related))
	for i := range all {
		if _, ok := related[all[i].ID()]; ok {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Divisions returns every division in ascending weight.
func (s *Service) Divisions() []division.Division {
	return division.SortByWeight(s.catalog.Divisions())
}

// Projects returns every project in catalog order.
func (s *Service) Projects() []project.Project {
	return s.catalog.Projects()
}

// Project returns the project with id.
func (s *Service) Project(id string) (project.Project, error) {
	p, ok := s.catalog.Project(id)
	if !ok {
		return project.Project{}, fmt.Errorf("project %q: %w", id, domain.ErrProjectNotFound)
	}
	return p, nil
}

// ProjectSolutions returns the solutions used on project id, in the project's order.
func (s *Service) ProjectSolutions(id string) ([]solution.Solution, error) {
	p, err := s.Project(id)
	if err != nil {
		return nil, err
	}
	return s.catalog.Lookup(p.SolutionIDs()), nil
}

// FilterProjects returns projects whose name, code or vertical contains
// query, case-insensitively. A blank query returns every project.
func (s *Service) FilterProjects(query string) []project.Project {
	all := s.catalog.Projects()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]project.Project, 0, len(all))
	for i := range all {
		p := &all[i]
		if strings.Contains(strings.ToLower(p.Name()), q) ||
			strings.Contains(strings.ToLower(p.Code()), q) ||
			strings.Contains(strings.ToLower(string(p.Vertical())), q) {
			out = append(out, *p)
		}
	}
	return out
}

// VerticalStats counts solutions and projects per vertical, in vertical order.
func (s *Service) VerticalStats() []VerticalStat {
	verticals := taxonomy.Verticals()
	idx := make(map[taxonomy.Vertical]int, len(verticals))
	out := make([]VerticalStat, len(verticals))
	for i, v := range verticals {
		idx[v] = i
		out[i].Vertical = v
	}

	for _, sol := range s.catalog.Solutions() {
		for _, v := range sol.Verticals() {
			out[idx[v]].Solutions++
		}
	}
	for _, p := range s.catalog.Projects() {
		if i, ok := idx[p.Vertical()]; ok {
			out[i].Projects++
		}
	}
	return out
}

// CategoryStats counts solutions per category, in category order.
func (s *Service) CategoryStats() []CategoryStat {
	categories := taxonomy.Categories()
	idx := make(map[taxonomy.Category]int, len(categories))
	out := make([]CategoryStat, len(categories))
	for i, c := range categories {
		idx[c] = i
		out[i].Category = c
	}

	for _, sol := range s.catalog.Solutions() {
		for _, c := range sol.Categories() {
			out[idx[c]].Solutions++
		}
	}
	return out
}

// Facets lists the enumerations and team-size buckets.
func (s *Service) Facets() FacetOptions {
	return FacetOptions{
		Categories: taxonomy.Categories(),
		Regions:    taxonomy.Regions(),
		Verticals:  taxonomy.Verticals(),
		TeamSizes:  append([]string(nil), filter.TeamSizeBuckets...),
	}
}

// DeepLink resolves shared link parameters, mapping ?p= to the project's vertical.
func (s *Service) DeepLink(values url.Values) filter.DeepLink {
	return filter.FromDeepLink(values, s.catalog.ProjectVertical)
}
