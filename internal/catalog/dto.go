package catalog

import (
	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// document is the YAML layout of a catalog file.
type document struct {
	Divisions []divisionRow `yaml:"divisions"`
	Solutions []solutionRow `yaml:"solutions"`
	Projects  []projectRow  `yaml:"projects"`
}

type divisionRow struct {
	ID     string `yaml:"id"`
	Code   string `yaml:"code"`
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
}

type contactRow struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

type solutionRow struct {
	ID                 string     `yaml:"id"`
	Name               string     `yaml:"name"`
	Tagline            string     `yaml:"tagline"`
	Description        string     `yaml:"description"`
	Categories         []string   `yaml:"categories"`
	Regions            []string   `yaml:"regions"`
	Verticals          []string   `yaml:"verticals"`
	Features           []string   `yaml:"features"`
	UseCases           []string   `yaml:"use_cases"`
	PrimaryDivision    string     `yaml:"primary_division"`
	SecondaryDivisions []string   `yaml:"secondary_divisions"`
	BaseScore          int        `yaml:"base_score"`
	TeamSize           string     `yaml:"team_size"`
	Location           string     `yaml:"location"`
	Founded            string     `yaml:"founded"`
	Website            string     `yaml:"website"`
	AverageCost        string     `yaml:"average_cost"`
	Rating             float64    `yaml:"rating"`
	ProjectsUsed       int        `yaml:"projects_used"`
	Contact            contactRow `yaml:"contact"`
	RelatedIDs         []string   `yaml:"related_ids"`
}

type projectRow struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Code        string   `yaml:"code"`
	Vertical    string   `yaml:"vertical"`
	Status      string   `yaml:"status"`
	Description string   `yaml:"description"`
	SolutionIDs []string `yaml:"solution_ids"`
}

func (r divisionRow) toDomain() (division.Division, error) {
	return division.New(r.ID, r.Code, r.Label, r.Weight)
}

// toDomain converts the row without enumeration checks; the loader validates tags first.
func (r solutionRow) toDomain() (solution.Solution, error) {
	return solution.New(solution.Params{
		ID:                 r.ID,
		Name:               r.Name,
		Tagline:            r.Tagline,
		Description:        r.Description,
		Categories:         convert[taxonomy.Category](r.Categories),
		Regions:            convert[taxonomy.Region](r.Regions),
		Verticals:          convert[taxonomy.Vertical](r.Verticals),
		Features:           r.Features,
		UseCases:           r.UseCases,
		PrimaryDivision:    r.PrimaryDivision,
		SecondaryDivisions: r.SecondaryDivisions,
		BaseScore:          r.BaseScore,
		TeamSize:           r.TeamSize,
		Location:           r.Location,
		Founded:            r.Founded,
		Website:            r.Website,
		AverageCost:        r.AverageCost,
		Rating:             r.Rating,
		ProjectsUsed:       r.ProjectsUsed,
		Contact:            solution.Contact(r.Contact),
		RelatedIDs:         r.RelatedIDs,
	})
}

func (r projectRow) toDomain() (project.Project, error) {
	return project.New(r.ID, r.Name, r.Code, taxonomy.Vertical(r.Vertical), r.Status, r.Description, r.SolutionIDs)
}

func convert[T ~string](in []string) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}
