package catalog

import (
	"github.com/divergeconnect/connect/internal/domain/division"
	"github.com/divergeconnect/connect/internal/domain/project"
	"github.com/divergeconnect/connect/internal/domain/solution"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// Reader is the read-only catalog the browse service works over.
type Reader interface {
	Solutions() []solution.Solution
	Divisions() []division.Division
	Projects() []project.Project
	Solution(id string) (solution.Solution, bool)
	Project(id string) (project.Project, bool)
	ProjectVertical(id string) (taxonomy.Vertical, bool)
	Lookup(ids []string) []solution.Solution
}
