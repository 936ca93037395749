package filter

import (
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// MaxValuesPerFacet is the maximum number of selected values kept per facet.
const MaxValuesPerFacet = 32

// Facets is a conjunctive filter: OR within a facet, AND across facets.
// A facet with no selected values is inactive and matches everything.
type Facets struct {
	categories []taxonomy.Category
	regions    []taxonomy.Region
	verticals  []taxonomy.Vertical
	teamSizes  []TeamSize
	dropped    []string
}

// NewFacets normalizes raw facet selections. Values outside the enumerations
// and unparseable team-size tokens are dropped rather than rejected, so a
// stale selection behaves as if it were absent.
func NewFacets(categories, regions, verticals, teamSizes []string) Facets {
	var f Facets
	for _, c := range dedup(categories) {
		if cat := taxonomy.Category(c); cat.IsValid() && len(f.categories) < MaxValuesPerFacet {
			f.categories = append(f.categories, cat)
		} else {
			f.dropped = append(f.dropped, "category:"+c)
		}
	}
	for _, r := range dedup(regions) {
		if reg := taxonomy.Region(r); reg.IsValid() && len(f.regions) < MaxValuesPerFacet {
			f.regions = append(f.regions, reg)
		} else {
			f.dropped = append(f.dropped, "region:"+r)
		}
	}
	for _, v := range dedup(verticals) {
		if vert := taxonomy.Vertical(v); vert.IsValid() && len(f.verticals) < MaxValuesPerFacet {
			f.verticals = append(f.verticals, vert)
		} else {
			f.dropped = append(f.dropped, "vertical:"+v)
		}
	}
	for _, t := range dedup(teamSizes) {
		ts, err := ParseTeamSize(t)
		if err != nil || len(f.teamSizes) >= MaxValuesPerFacet {
			f.dropped = append(f.dropped, "team_size:"+t)
			continue
		}
		f.teamSizes = append(f.teamSizes, ts)
	}
	return f
}

// Categories returns the active category selections.
func (f Facets) Categories() []taxonomy.Category { return f.categories }

// Regions returns the active region selections.
func (f Facets) Regions() []taxonomy.Region { return f.regions }

// Verticals returns the active vertical selections.
func (f Facets) Verticals() []taxonomy.Vertical { return f.verticals }

// TeamSizes returns the active team-size selections.
func (f Facets) TeamSizes() []TeamSize { return f.teamSizes }

// Dropped returns the "facet:value" pairs ignored during normalization.
func (f Facets) Dropped() []string { return f.dropped }

// IsEmpty reports whether no facet is active.
func (f Facets) IsEmpty() bool {
	return len(f.categories) == 0 && len(f.regions) == 0 &&
		len(f.verticals) == 0 && len(f.teamSizes) == 0
}

// ActiveCount returns the total number of selected values across facets.
func (f Facets) ActiveCount() int {
	return len(f.categories) + len(f.regions) + len(f.verticals) + len(f.teamSizes)
}

// WithVertical returns a copy of f whose vertical facet is exactly v.
func (f Facets) WithVertical(v taxonomy.Vertical) Facets {
	f.verticals = []taxonomy.Vertical{v}
	return f
}

// WithCategory returns a copy of f whose category facet is exactly c.
func (f Facets) WithCategory(c taxonomy.Category) Facets {
	f.categories = []taxonomy.Category{c}
	return f
}

// Match reports whether s passes every active facet.
func (f Facets) Match(s *solution.Solution) bool {
	if len(f.categories) > 0 && !anyIn(f.categories, s.Categories()) {
		return false
	}
	if len(f.regions) > 0 && !anyIn(f.regions, s.Regions()) {
		return false
	}
	if len(f.verticals) > 0 && !anyIn(f.verticals, s.Verticals()) {
		return false
	}
	if len(f.teamSizes) > 0 && !matchTeamSize(f.teamSizes, s.TeamSize()) {
		return false
	}
	return true
}

// Apply returns the solutions that pass f, keeping their order.
func (f Facets) Apply(solutions []solution.Solution) []solution.Solution {
	if f.IsEmpty() {
		return solutions
	}
	out := make([]solution.Solution, 0, len(solutions))
	for i := range solutions {
		if f.Match(&solutions[i]) {
			out = append(out, solutions[i])
		}
	}
	return out
}

func matchTeamSize(selected []TeamSize, raw string) bool {
	size, err := ParseTeamSize(raw)
	if err != nil {
		return false
	}
	for _, sel := range selected {
		if sel.Overlaps(size) {
			return true
		}
	}
	return false
}

func anyIn[T comparable](selected, have []T) bool {
	for _, s := range selected {
		for _, h := range have {
			if s == h {
				return true
			}
		}
	}
	return false
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
