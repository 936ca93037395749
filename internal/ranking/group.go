package ranking

import (
	"sort"

	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/solution"
)

// Placement is a solution's position inside a division group.
type Placement struct {
	Solution solution.Solution
	// Primary is true when the group's division is the solution's primary division.
	Primary bool
}

// Group is a non-empty division bucket.
type Group struct {
	DivisionID string
	Code       string
	Label      string
	Solutions  []Placement
}

// GroupByDivision buckets solutions by division in ascending division weight.
// Within a group primary placements precede secondary ones, each ordered by
// descending base score with ties in input order. A solution appears once in
// every division it references. Empty groups are omitted.
func GroupByDivision(solutions []solution.Solution, divisions []division.Division) []Group {
	ordered := division.SortByWeight(divisions)
	groups := make([]Group, 0, len(ordered))

	for _, d := range ordered {
		var primary, secondary []Placement
		for i := range solutions {
			s := &solutions[i]
			switch {
			case s.PrimaryDivision() == d.ID():
				primary = append(primary, Placement{Solution: *s, Primary: true})
			case s.InDivision(d.ID()):
				secondary = append(secondary, Placement{Solution: *s})
			}
		}
		if len(primary) == 0 && len(secondary) == 0 {
			continue
		}
		sortByBaseScore(primary)
		sortByBaseScore(secondary)

		groups = append(groups, Group{
			DivisionID: d.ID(),
			Code:       d.Code(),
			Label:      d.Label(),
			Solutions:  append(primary, secondary...),
		})
	}
	return groups
}

func sortByBaseScore(ps []Placement) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Solution.BaseScore() > ps[j].Solution.BaseScore()
	})
}
