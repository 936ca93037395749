package solution

import (
	"fmt"

	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// Contact is the vendor contact shown on the shortlist.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Params carries the fields of a Solution for construction.
type Params struct {
	ID                 string
	Name               string
	Tagline            string
	Description        string
	Categories         []taxonomy.Category
	Regions            []taxonomy.Region
	Verticals          []taxonomy.Vertical
	Features           []string
	UseCases           []string
	PrimaryDivision    string
	SecondaryDivisions []string
	BaseScore          int

	TeamSize     string
	Location     string
	Founded      string
	Website      string
	AverageCost  string
	Rating       float64
	ProjectsUsed int
	Contact      Contact
	RelatedIDs   []string
}

// Solution is a cataloged vendor product (immutable value object).
type Solution struct {
	id                 string
	name               string
	tagline            string
	description        string
	categories         []taxonomy.Category
	regions            []taxonomy.Region
	verticals          []taxonomy.Vertical
	features           []string
	useCases           []string
	primaryDivision    string
	secondaryDivisions []string
	baseScore          int

	teamSize     string
	location     string
	founded      string
	website      string
	averageCost  string
	rating       float64
	projectsUsed int
	contact      Contact
	relatedIDs   []string
}

// New validates and creates a Solution. Tag membership and division references
// are catalog-level invariants and are checked by the catalog loader.
func New(p Params) (Solution, error) {
	if p.ID == "" {
		return Solution{}, fmt.Errorf("solution id is required")
	}
	if p.Name == "" {
		return Solution{}, fmt.Errorf("solution %q: name is required", p.ID)
	}
	if p.PrimaryDivision == "" {
		return Solution{}, fmt.Errorf("solution %q: primary division is required", p.ID)
	}
	if p.BaseScore < 0 {
		return Solution{}, fmt.Errorf("solution %q: base score must be non-negative", p.ID)
	}
	return Solution{
		id:                 p.ID,
		name:               p.Name,
		tagline:            p.Tagline,
		description:        p.Description,
		categories:         clone(p.Categories),
		regions:            clone(p.Regions),
		verticals:          clone(p.Verticals),
		features:           clone(p.Features),
		useCases:           clone(p.UseCases),
		primaryDivision:    p.PrimaryDivision,
		secondaryDivisions: clone(p.SecondaryDivisions),
		baseScore:          p.BaseScore,
		teamSize:           p.TeamSize,
		location:           p.Location,
		founded:            p.Founded,
		website:            p.Website,
		averageCost:        p.AverageCost,
		rating:             p.Rating,
		projectsUsed:       p.ProjectsUsed,
		contact:            p.Contact,
		relatedIDs:         clone(p.RelatedIDs),
	}, nil
}

// ID returns the unique solution identifier.
func (s *Solution) ID() string { return s.id }

// Name returns the product name.
func (s *Solution) Name() string { return s.name }

// Tagline returns the one-line pitch.
func (s *Solution) Tagline() string { return s.tagline }

// Description returns the long description.
func (s *Solution) Description() string { return s.description }

// Categories returns the category tags.
func (s *Solution) Categories() []taxonomy.Category { return clone(s.categories) }

// Regions returns the region tags.
func (s *Solution) Regions() []taxonomy.Region { return clone(s.regions) }

// Verticals returns the vertical tags.
func (s *Solution) Verticals() []taxonomy.Vertical { return clone(s.verticals) }

// Features returns the feature list.
func (s *Solution) Features() []string { return clone(s.features) }

// UseCases returns the use-case list.
func (s *Solution) UseCases() []string { return clone(s.useCases) }

// PrimaryDivision returns the id of the division the solution is filed under.
func (s *Solution) PrimaryDivision() string { return s.primaryDivision }

// SecondaryDivisions returns the ids of additional divisions.
func (s *Solution) SecondaryDivisions() []string { return clone(s.secondaryDivisions) }

// BaseScore returns the rank contribution used inside division groups.
func (s *Solution) BaseScore() int { return s.baseScore }

// TeamSize returns the vendor team size range, e.g. "11-50" or "1000+".
func (s *Solution) TeamSize() string { return s.teamSize }

// Location returns the vendor headquarters.
func (s *Solution) Location() string { return s.location }

// Founded returns the founding year as written in the catalog.
func (s *Solution) Founded() string { return s.founded }

// Website returns the vendor domain.
func (s *Solution) Website() string { return s.website }

// AverageCost returns the display cost band.
func (s *Solution) AverageCost() string { return s.averageCost }

// Rating returns the average rating.
func (s *Solution) Rating() float64 { return s.rating }

// ProjectsUsed returns the number of projects that used the solution.
func (s *Solution) ProjectsUsed() int { return s.projectsUsed }

// Contact returns the vendor contact.
func (s *Solution) Contact() Contact { return s.contact }

// RelatedIDs returns ids of related solutions.
func (s *Solution) RelatedIDs() []string { return clone(s.relatedIDs) }

// InDivision reports whether the solution is filed under divisionID as primary or secondary.
func (s *Solution) InDivision(divisionID string) bool {
	if s.primaryDivision == divisionID {
		return true
	}
	for _, d := range s.secondaryDivisions {
		if d == divisionID {
			return true
		}
	}
	return false
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
