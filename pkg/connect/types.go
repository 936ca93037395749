package connect

import (
	"time"

	domhistory "github.com/divergeconnect/connect/internal/domain/history"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/ranking"
)

// Contact is a vendor contact person.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Solution is a catalog entry.
type Solution struct {
	ID                 string
	Name               string
	Tagline            string
	Description        string
	Categories         []string
	Regions            []string
	Verticals          []string
	Features           []string
	UseCases           []string
	PrimaryDivision    string
	SecondaryDivisions []string
	BaseScore          int
	TeamSize           string
	Location           string
	Founded            string
	Website            string
	AverageCost        string
	Rating             float64
	ProjectsUsed       int
	Contact            Contact
	RelatedIDs         []string
}

// Division is a construction division (MasterFormat style) solutions are grouped by.
type Division struct {
	ID    string
	Code  string
	Label string
}

// Project is a reference project that used catalog solutions.
type Project struct {
	ID          string
	Name        string
	Code        string
	Vertical    string
	Status      string
	Description string
	SolutionIDs []string
}

// Query is a catalog search. Facet values outside the taxonomy are ignored
// and reported in Results.Dropped.
type Query struct {
	Text       string
	Assisted   bool
	Categories []string
	Regions    []string
	Verticals  []string
	TeamSizes  []string
	// Limit caps the results; zero returns every match.
	Limit int
}

// Result is a solution with its relevance score.
type Result struct {
	Solution Solution
	Score    int
}

// Results is a ranked search answer.
type Results struct {
	Results []Result
	// Assisted is false when an assisted query fell back to keyword ranking.
	Assisted bool
	Terms    []string
	Total    int
	Dropped  []string
}

// Placement is a solution inside a division group.
type Placement struct {
	Solution Solution
	Primary  bool
}

// Group is the solutions of one division.
type Group struct {
	Division  Division
	Solutions []Placement
}

// HistoryType classifies a history entry.
type HistoryType string

// History entry types.
const (
	HistoryVertical   HistoryType = HistoryType(domhistory.Vertical)
	HistoryProject    HistoryType = HistoryType(domhistory.Project)
	HistoryInnovation HistoryType = HistoryType(domhistory.Innovation)
	HistoryAI         HistoryType = HistoryType(domhistory.AI)
)

// HistoryItem is a visited page.
type HistoryItem struct {
	ID        string
	Type      HistoryType
	Title     string
	Path      string
	Timestamp time.Time
}

func solutionFromDomain(s *solution.Solution) Solution {
	c := s.Contact()
	return Solution{
		ID:                 s.ID(),
		Name:               s.Name(),
		Tagline:            s.Tagline(),
		Description:        s.Description(),
		Categories:         stringsOf(s.Categories()),
		Regions:            stringsOf(s.Regions()),
		Verticals:          stringsOf(s.Verticals()),
		Features:           s.Features(),
		UseCases:           s.UseCases(),
		PrimaryDivision:    s.PrimaryDivision(),
		SecondaryDivisions: s.SecondaryDivisions(),
		BaseScore:          s.BaseScore(),
		TeamSize:           s.TeamSize(),
		Location:           s.Location(),
		Founded:            s.Founded(),
		Website:            s.Website(),
		AverageCost:        s.AverageCost(),
		Rating:             s.Rating(),
		ProjectsUsed:       s.ProjectsUsed(),
		Contact:            Contact{Name: c.Name, Email: c.Email, Phone: c.Phone},
		RelatedIDs:         s.RelatedIDs(),
	}
}

func solutionsFromDomain(in []solution.Solution) []Solution {
	out := make([]Solution, len(in))
	for i := range in {
		out[i] = solutionFromDomain(&in[i])
	}
	return out
}

func projectFromDomain(p *project.Project) Project {
	return Project{
		ID:          p.ID(),
		Name:        p.Name(),
		Code:        p.Code(),
		Vertical:    string(p.Vertical()),
		Status:      p.Status(),
		Description: p.Description(),
		SolutionIDs: p.SolutionIDs(),
	}
}

func groupsFromDomain(in []ranking.Group) []Group {
	out := make([]Group, len(in))
	for i, g := range in {
		placements := make([]Placement, len(g.Solutions))
		for j := range g.Solutions {
			placements[j] = Placement{
				Solution: solutionFromDomain(&g.Solutions[j].Solution),
				Primary:  g.Solutions[j].Primary,
			}
		}
		out[i] = Group{
			Division:  Division{ID: g.DivisionID, Code: g.Code, Label: g.Label},
			Solutions: placements,
		}
	}
	return out
}

func historyFromDomain(in []domhistory.Item) []HistoryItem {
	out := make([]HistoryItem, len(in))
	for i, it := range in {
		out[i] = HistoryItem{
			ID:        it.ID,
			Type:      HistoryType(it.Type),
			Title:     it.Title,
			Path:      it.Path,
			Timestamp: time.UnixMilli(it.Timestamp).UTC(),
		}
	}
	return out
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
