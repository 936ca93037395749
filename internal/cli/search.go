package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
	"github.com/divergeconnect/connect/internal/domain/search/request"
	"github.com/divergeconnect/connect/internal/ranking"
)

type searchFlags struct {
	categories []string
	regions    []string
	verticals  []string
	teamSizes  []string
	limit      int
	explain    bool
	grouped    bool
}

type searchRow struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Division      string                 `json:"division"`
	Score         int                    `json:"score"`
	Contributions []ranking.Contribution `json:"contributions,omitempty"`
}

type searchOutput struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Dropped []string    `json:"dropped,omitempty"`
	Results []searchRow `json:"results"`
}

func searchCmd(g *globals) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank catalog solutions for a keyword query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			req, err := request.New(query, mode.Keyword,
				filter.NewFacets(f.categories, f.regions, f.verticals, f.teamSizes), f.limit)
			if err != nil {
				return err
			}
			if f.grouped {
				resp, err := a.search.Grouped(cmd.Context(), &req)
				if err != nil {
					return err
				}
				return a.printGroups(resp.Groups)
			}

			resp, err := a.search.Search(cmd.Context(), &req)
			if err != nil {
				return err
			}

			out := searchOutput{Query: query, Total: resp.Total, Dropped: resp.Dropped}
			var explained []ranking.Explanation
			if f.explain {
				explained = a.search.Explain(query, resp.Results)
			}
			for i := range resp.Results {
				sol := resp.Results[i].Solution()
				row := searchRow{
					ID:       sol.ID(),
					Name:     sol.Name(),
					Division: sol.PrimaryDivision(),
					Score:    resp.Results[i].RelevanceScore(),
				}
				if explained != nil {
					row.Contributions = explained[i].Contributions
				}
				out.Results = append(out.Results, row)
			}
			if a.jsonOut {
				return a.printJSON(out)
			}
			return a.printSearch(out)
		},
	}

	cmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil, "Category facet (repeatable)")
	cmd.Flags().StringSliceVarP(&f.regions, "region", "r", nil, "Region facet (repeatable)")
	cmd.Flags().StringSliceVarP(&f.verticals, "vertical", "v", nil, "Vertical facet (repeatable)")
	cmd.Flags().StringSliceVarP(&f.teamSizes, "team-size", "t", nil, "Team size facet such as 11-50 or 500+")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Maximum results (0 for all)")
	cmd.Flags().BoolVar(&f.explain, "explain", false, "Show the rules behind each score")
	cmd.Flags().BoolVar(&f.grouped, "grouped", false, "Group results by division")
	return cmd
}

func (a *app) printSearch(out searchOutput) error {
	for _, d := range out.Dropped {
		fmt.Fprintf(a.out, "ignored facet %s\n", d)
	}
	if len(out.Results) == 0 {
		fmt.Fprintln(a.out, "(no matches)")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tNAME\tDIV")
	for _, r := range out.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Score, r.ID, r.Name, r.Division)
		for _, c := range r.Contributions {
			fmt.Fprintf(tw, "\t  +%d\t%s\t%s\n", c.Points, c.Rule, c.Detail)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d shown\n", len(out.Results), out.Total)
	return nil
}
