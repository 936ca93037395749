package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/ranking"
	selectionuc "github.com/divergeconnect/connect/internal/usecase/selection"
)

// shortlist resolves ids in the given order, rejecting unknown ones.
func (a *app) shortlist(ids []string) ([]solution.Solution, error) {
	for _, id := range ids {
		if !a.catalog.Has(id) {
			return nil, fmt.Errorf("%q: %w", id, domain.ErrSolutionNotFound)
		}
	}
	return a.catalog.Lookup(ids), nil
}

func groupsCmd(g *globals) *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Group a shortlist of solutions by division",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			sols, err := a.shortlist(ids)
			if err != nil {
				return err
			}
			return a.printGroups(ranking.GroupByDivision(sols, a.catalog.Divisions()))
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Solution ids, comma separated")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func exportCmd(g *globals) *cobra.Command {
	var (
		ids     []string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a shortlist as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			sols, err := a.shortlist(ids)
			if err != nil {
				return err
			}
			if outPath == "" {
				return selectionuc.WriteCSV(a.out, sols)
			}

			f, err := os.Create(filepath.Clean(outPath))
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := selectionuc.WriteCSV(f, sols); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", outPath, err)
			}
			fmt.Fprintf(a.out, "wrote %d solutions to %s\n", len(sols), outPath)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Solution ids, comma separated")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (stdout if omitted)")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func shareCmd(g *globals) *cobra.Command {
	var (
		ids     []string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Build a checkout link for a shortlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := g.load(cmd)
			if err != nil {
				return err
			}
			if _, err := a.shortlist(ids); err != nil {
				return err
			}
			link, err := selectionuc.BuildShareLink(baseURL, ids)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(map[string]string{"url": link})
			}
			fmt.Fprintln(a.out, link)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Solution ids, comma separated")
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost", "Public origin of the checkout page")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}
