// Package catalog loads the read-only solution catalog and checks its
// referential invariants.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

//go:embed data/catalog.yaml
var bundled []byte

// Catalog is an immutable, validated set of divisions, solutions and projects.
// Safe for concurrent reads.
type Catalog struct {
	divisions []division.Division
	solutions []solution.Solution
	projects  []project.Project

	solutionIdx map[string]int
	projectIdx  map[string]int
}

// Bundled loads the catalog compiled into the binary.
func Bundled() (*Catalog, error) {
	return Parse(bundled)
}

// Load reads a catalog from path, or the bundled catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Bundled()
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document and validates it.
// Invariant violations wrap domain.ErrInvalidCatalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		solutionIdx: make(map[string]int, len(doc.Solutions)),
		projectIdx:  make(map[string]int, len(doc.Projects)),
	}

	divisionIDs := make(map[string]struct{}, len(doc.Divisions))
	for i, row := range doc.Divisions {
		d, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: division[%d]: %w", domain.ErrInvalidCatalog, i, err)
		}
		if _, dup := divisionIDs[d.ID()]; dup {
			return nil, domain.NewCatalogError("division "+d.ID(), "id", d.ID())
		}
		divisionIDs[d.ID()] = struct{}{}
		c.divisions = append(c.divisions, d)
	}

	for i, row := range doc.Solutions {
		if err := checkTags(row); err != nil {
			return nil, err
		}
		if err := checkDivisions(row, divisionIDs); err != nil {
			return nil, err
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: solution[%d]: %w", domain.ErrInvalidCatalog, i, err)
		}
		if _, dup := c.solutionIdx[s.ID()]; dup {
			return nil, domain.NewCatalogError("solution "+s.ID(), "id", s.ID())
		}
		c.solutionIdx[s.ID()] = len(c.solutions)
		c.solutions = append(c.solutions, s)
	}

	// related ids may point forward, so they are checked after every solution is indexed
	for i := range c.solutions {
		for _, rel := range c.solutions[i].RelatedIDs() {
			if _, ok := c.solutionIdx[rel]; !ok {
				return nil, domain.NewCatalogError("solution "+c.solutions[i].ID(), "related_ids", rel)
			}
		}
	}

	for i, row := range doc.Projects {
		p, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: project[%d]: %w", domain.ErrInvalidCatalog, i, err)
		}
		if !p.Vertical().IsValid() {
			return nil, domain.NewCatalogError("project "+p.ID(), "vertical", string(p.Vertical()))
		}
		if _, dup := c.projectIdx[p.ID()]; dup {
			return nil, domain.NewCatalogError("project "+p.ID(), "id", p.ID())
		}
		for _, sid := range p.SolutionIDs() {
			if _, ok := c.solutionIdx[sid]; !ok {
				return nil, domain.NewCatalogError("project "+p.ID(), "solution_ids", sid)
			}
		}
		c.projectIdx[p.ID()] = len(c.projects)
		c.projects = append(c.projects, p)
	}

	return c, nil
}

func checkTags(row solutionRow) error {
	record := "solution " + row.ID
	for _, v := range row.Categories {
		if !taxonomy.Category(v).IsValid() {
			return domain.NewCatalogError(record, "categories", v)
		}
	}
	for _, v := range row.Regions {
		if !taxonomy.Region(v).IsValid() {
			return domain.NewCatalogError(record, "regions", v)
		}
	}
	for _, v := range row.Verticals {
		if !taxonomy.Vertical(v).IsValid() {
			return domain.NewCatalogError(record, "verticals", v)
		}
	}
	return nil
}

func checkDivisions(row solutionRow, known map[string]struct{}) error {
	record := "solution " + row.ID
	if _, ok := known[row.PrimaryDivision]; !ok {
		return domain.NewCatalogError(record, "primary_division", row.PrimaryDivision)
	}
	for _, d := range row.SecondaryDivisions {
		if _, ok := known[d]; !ok {
			return domain.NewCatalogError(record, "secondary_divisions", d)
		}
	}
	return nil
}

// Solutions returns every solution in catalog order.
func (c *Catalog) Solutions() []solution.Solution {
	out := make([]solution.Solution, len(c.solutions))
	copy(out, c.solutions)
	return out
}

// Divisions returns every division in catalog order.
func (c *Catalog) Divisions() []division.Division {
	out := make([]division.Division, len(c.divisions))
	copy(out, c.divisions)
	return out
}

// Projects returns every project in catalog order.
func (c *Catalog) Projects() []project.Project {
	out := make([]project.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Solution looks up a solution by id.
func (c *Catalog) Solution(id string) (solution.Solution, bool) {
	i, ok := c.solutionIdx[id]
	if !ok {
		return solution.Solution{}, false
	}
	return c.solutions[i], true
}

// Project looks up a project by id.
func (c *Catalog) Project(id string) (project.Project, bool) {
	i, ok := c.projectIdx[id]
	if !ok {
		return project.Project{}, false
	}
	return c.projects[i], true
}

// ProjectVertical resolves a project id to its vertical.
func (c *Catalog) ProjectVertical(id string) (taxonomy.Vertical, bool) {
	p, ok := c.Project(id)
	if !ok {
		return "", false
	}
	return p.Vertical(), true
}

// Lookup returns the solutions for ids in the given order, skipping unknown ids.
func (c *Catalog) Lookup(ids []string) []solution.Solution {
	out := make([]solution.Solution, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.Solution(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether id names a catalog solution.
func (c *Catalog) Has(id string) bool {
	_, ok := c.solutionIdx[id]
	return ok
}

// Len returns the number of solutions.
func (c *Catalog) Len() int { return len(c.solutions) }
