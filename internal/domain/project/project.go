package project

import (
	"fmt"

	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

// Project is a reference construction project that used catalog solutions.
type Project struct {
	id          string
	name        string
	code        string
	vertical    taxonomy.Vertical
	status      string
	description string
	solutionIDs []string
}

// New validates and creates a Project.
func New(id, name, code string, vertical taxonomy.Vertical, status, description string, solutionIDs []string) (Project, error) {
	if id == "" {
		return Project{}, fmt.Errorf("project id is required")
	}
	if name == "" {
		return Project{}, fmt.Errorf("project %q: name is required", id)
	}
	ids := make([]string, len(solutionIDs))
	copy(ids, solutionIDs)
	return Project{
		id: id, name: name, code: code, vertical: vertical,
		status: status, description: description, solutionIDs: ids,
	}, nil
}

// ID returns the project identifier.
func (p *Project) ID() string { return p.id }

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Code returns the internal project code.
func (p *Project) Code() string { return p.code }

// Vertical returns the market vertical of the project.
func (p *Project) Vertical() taxonomy.Vertical { return p.vertical }

// Status returns the project status label.
func (p *Project) Status() string { return p.status }

// Description returns the project summary.
func (p *Project) Description() string { return p.description }

// SolutionIDs returns ids of solutions used on the project.
func (p *Project) SolutionIDs() []string {
	out := make([]string, len(p.solutionIDs))
	copy(out, p.solutionIDs)
	return out
}
