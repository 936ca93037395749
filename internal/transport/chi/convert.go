package chi

import (
	"time"

	"github.com/divergeconnect/connect/internal/domain/division"
	domhistory "github.com/divergeconnect/connect/internal/domain/history"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/search/result"
	"github.com/divergeconnect/connect/internal/domain/solution"
	domusage "github.com/divergeconnect/connect/internal/domain/usage"
	"github.com/divergeconnect/connect/internal/ranking"
	"github.com/divergeconnect/connect/internal/transport/api"
	cataloguc "github.com/divergeconnect/connect/internal/usecase/catalog"
)

func solutionToAPI(s *solution.Solution) api.Solution {
	out := api.Solution{
		Id:                 s.ID(),
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
		RelatedIds:         s.RelatedIDs(),
	}
	if c := s.Contact(); c != (solution.Contact{}) {
		out.Contact = &api.Contact{Name: c.Name, Email: c.Email, Phone: c.Phone}
	}
	return out
}

func solutionsToAPI(sols []solution.Solution) []api.Solution {
	out := make([]api.Solution, len(sols))
	for i := range sols {
		out[i] = solutionToAPI(&sols[i])
	}
	return out
}

func scoredToAPI(results []result.ScoredSolution) []api.SearchResultItem {
	out := make([]api.SearchResultItem, len(results))
	for i := range results {
		sol := results[i].Solution()
		out[i] = api.SearchResultItem{
			Solution: solutionToAPI(&sol),
			Score:    results[i].RelevanceScore(),
		}
	}
	return out
}

func contributionsToAPI(cs []ranking.Contribution) []api.Contribution {
	out := make([]api.Contribution, len(cs))
	for i, c := range cs {
		out[i] = api.Contribution{Rule: string(c.Rule), Detail: c.Detail, Points: c.Points}
	}
	return out
}

func groupsToAPI(groups []ranking.Group) []api.DivisionGroup {
	out := make([]api.DivisionGroup, len(groups))
	for i, g := range groups {
		placements := make([]api.Placement, len(g.Solutions))
		for j := range g.Solutions {
			placements[j] = api.Placement{
				Solution: solutionToAPI(&g.Solutions[j].Solution),
				Primary:  g.Solutions[j].Primary,
			}
		}
		out[i] = api.DivisionGroup{
			DivisionId: g.DivisionID,
			Code:       g.Code,
			Label:      g.Label,
			Solutions:  placements,
		}
	}
	return out
}

func divisionsToAPI(divs []division.Division) []api.Division {
	out := make([]api.Division, len(divs))
	for i, d := range divs {
		out[i] = api.Division{Id: d.ID(), Code: d.Code(), Label: d.Label(), Weight: d.Weight()}
	}
	return out
}

func projectToAPI(p *project.Project) api.Project {
	return api.Project{
		Id:          p.ID(),
		Name:        p.Name(),
		Code:        p.Code(),
		Vertical:    string(p.Vertical()),
		Status:      p.Status(),
		Description: p.Description(),
		SolutionIds: p.SolutionIDs(),
	}
}

func projectsToAPI(projects []project.Project) []api.Project {
	out := make([]api.Project, len(projects))
	for i := range projects {
		out[i] = projectToAPI(&projects[i])
	}
	return out
}

func facetsToAPI(f cataloguc.FacetOptions) api.FacetsResponse {
	return api.FacetsResponse{
		Categories: stringsOf(f.Categories),
		Regions:    stringsOf(f.Regions),
		Verticals:  stringsOf(f.Verticals),
		TeamSizes:  f.TeamSizes,
	}
}

func historyItemToAPI(it domhistory.Item) api.HistoryItem {
	return api.HistoryItem{
		Id:        it.ID,
		Type:      string(it.Type),
		Title:     it.Title,
		Path:      it.Path,
		Timestamp: time.UnixMilli(it.Timestamp).UTC(),
	}
}

func usageToAPI(r *domusage.Report) api.UsageResponse {
	return api.UsageResponse{
		Provider:        r.Provider(),
		Period:          string(r.Period()),
		PeriodStartAt:   time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEndAt:     time.UnixMilli(r.PeriodEnd()).UTC(),
		TokensLimit:     r.TokensLimit(),
		TokensUsed:      r.TokensUsed(),
		TokensRemaining: r.TokensRemaining(),
		IsExhausted:     r.IsExhausted(),
	}
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func derefSlice(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
