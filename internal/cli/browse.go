package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/ranking"
	"github.com/divergeconnect/connect/internal/version"
)

type solutionView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline,omitempty"`
	Division    string   `json:"division"`
	Categories  []string `json:"categories,omitempty"`
	Verticals   []string `json:"verticals,omitempty"`
	Regions     []string `json:"regions,omitempty"`
	TeamSize    string   `json:"team_size,omitempty"`
	AverageCost string   `json:"average_cost,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Website     string   `json:"website,omitempty"`
	Related     []string `json:"related,omitempty"`
}

type groupView struct {
	Division string   `json:"division"`
	Label    string   `json:"label"`
	Primary  []string `json:"primary"`
	Also     []string `json:"also,omitempty"`
}

func newSolutionView(s *solution.Solution, related []solution.Solution) solutionView {
	v := solutionView{
		ID:          s.ID(),
		Name:        s.Name(),
		Tagline:     s.Tagline(),
		Division:    s.PrimaryDivision(),
		Categories:  stringsOf(s.Categories()),
		Verticals:   stringsOf(s.Verticals()),
		Regions:     stringsOf(s.Regions()),
		TeamSize:    s.TeamSize(),
		AverageCost: s.AverageCost(),
		Rating:      s.Rating(),
		Website:     s.Website(),
	}
	for i := range related {
		v.Related = append(v.Related, related[i].ID())
	}
	return v
}

func solutionCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "solution <id>",
		Short: "Show one solution and its related solutions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			sol, err := a.browse.Solution(args[0])
			if err != nil {
				return err
			}
			related, err := a.browse.Related(args[0])
			if err != nil {
				return err
			}
			v := newSolutionView(&sol, related)
			if a.jsonOut {
				return a.printJSON(v)
			}

			fmt.Fprintf(a.out, "%s (%s)\n", v.Name, v.ID)
			if v.Tagline != "" {
				fmt.Fprintf(a.out, "  %s\n", v.Tagline)
			}
			fmt.Fprintf(a.out, "Division:   %s\n", v.Division)
			fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(v.Categories, ", "))
			fmt.Fprintf(a.out, "Verticals:  %s\n", strings.Join(v.Verticals, ", "))
			fmt.Fprintf(a.out, "Regions:    %s\n", strings.Join(v.Regions, ", "))
			if len(v.Related) > 0 {
				fmt.Fprintf(a.out, "Related:    %s\n", strings.Join(v.Related, ", "))
			}
			return nil
		},
	}
}

func divisionsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "divisions",
		Short: "List divisions in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			divs := a.browse.Divisions()
			if a.jsonOut {
				type row struct {
					ID    string `json:"id"`
					Code  string `json:"code"`
					Label string `json:"label"`
				}
				rows := make([]row, 0, len(divs))
				for _, d := range divs {
					rows = append(rows, row{ID: d.ID(), Code: d.Code(), Label: d.Label()})
				}
				return a.printJSON(rows)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, d := range divs {
				fmt.Fprintf(tw, "%s\t%s\n", d.Code(), d.Label())
			}
			return tw.Flush()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "connectctl %s\n", version.String())
		},
	}
}

func (a *app) printGroups(groups []ranking.Group) error {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		v := groupView{Division: g.Code, Label: g.Label, Primary: []string{}}
		for _, p := range g.Solutions {
			if p.Primary {
				v.Primary = append(v.Primary, p.Solution.ID())
			} else {
				v.Also = append(v.Also, p.Solution.ID())
			}
		}
		views = append(views, v)
	}
	if a.jsonOut {
		return a.printJSON(views)
	}
	if len(views) == 0 {
		fmt.Fprintln(a.out, "(no solutions)")
		return nil
	}
	for _, v := range views {
		fmt.Fprintf(a.out, "%s  %s\n", v.Division, v.Label)
		for _, id := range v.Primary {
			fmt.Fprintf(a.out, "  %s\n", id)
		}
		for _, id := range v.Also {
			fmt.Fprintf(a.out, "  %s (also)\n", id)
		}
	}
	return nil
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
