// Package cli implements connectctl, an offline companion to the connect API
// that searches and exports a catalog file without a running server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/divergeconnect/connect/internal/catalog"
	cataloguc "github.com/divergeconnect/connect/internal/usecase/catalog"
	searchuc "github.com/divergeconnect/connect/internal/usecase/search"
)

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	catalogPath string
	jsonOut     bool
}

// app bundles the services a subcommand runs against.
type app struct {
	catalog *catalog.Catalog
	search  *searchuc.Service
	browse  *cataloguc.Service
	out     io.Writer
	jsonOut bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "connectctl",
		Short:        "Search and export the construction technology catalog",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&g.catalogPath, "catalog", "", "Catalog YAML file (bundled catalog if omitted)")
	cmd.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Print JSON instead of text")

	cmd.AddCommand(
		searchCmd(g),
		solutionCmd(g),
		divisionsCmd(g),
		groupsCmd(g),
		exportCmd(g),
		shareCmd(g),
		versionCmd(),
	)
	return cmd
}

func (g *globals) load(cmd *cobra.Command) (*app, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if g.catalogPath == "" {
		cat, err = catalog.Bundled()
	} else {
		cat, err = catalog.Load(g.catalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &app{
		catalog: cat,
		search:  searchuc.New(cat, nil, nil),
		browse:  cataloguc.New(cat),
		out:     cmd.OutOrStdout(),
		jsonOut: g.jsonOut,
	}, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
