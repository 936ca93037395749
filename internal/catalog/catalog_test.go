package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

const minimalDoc = `
divisions:
  - {id: "01", label: General, weight: 1}
  - {id: "11", label: Equipment, weight: 11}
solutions:
  - id: a
    name: Alpha
    categories: [Robotics]
    regions: [Europe]
    verticals: [Hospital]
    primary_division: "01"
    secondary_divisions: ["11"]
    base_score: 10
    related_ids: [b]
  - id: b
    name: Beta
    primary_division: "11"
projects:
  - id: P-1
    name: Tower
    vertical: Hospital
    solution_ids: [a, b]
`

func TestBundled_IsValid(t *testing.T) {
	c, err := Bundled()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Solutions())
	assert.NotEmpty(t, c.Divisions())
	assert.NotEmpty(t, c.Projects())

	s, ok := c.Solution("robolayer")
	require.True(t, ok)
	assert.Equal(t, "RoboLayer", s.Name())
	assert.Equal(t, "01", s.PrimaryDivision())
}

func TestParse_Minimal(t *testing.T) {
	c, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	require.Len(t, c.Solutions(), 2)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "a", c.Solutions()[0].ID())
	assert.Equal(t, "01", c.Divisions()[0].Code(), "code defaults to id")

	v, ok := c.ProjectVertical("P-1")
	require.True(t, ok)
	assert.Equal(t, taxonomy.Hospital, v)

	_, ok = c.ProjectVertical("P-404")
	assert.False(t, ok)

	assert.True(t, c.Has("b"))
	assert.False(t, c.Has("zzz"))

	got := c.Lookup([]string{"b", "missing", "a"})
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID())
	assert.Equal(t, "a", got[1].ID())
}

func TestParse_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		field   string
	}{
		{"unknown primary division", [2]string{`primary_division: "11"`, `primary_division: "99"`}, "primary_division"},
		{"unknown secondary division", [2]string{`secondary_divisions: ["11"]`, `secondary_divisions: ["42"]`}, "secondary_divisions"},
		{"unknown category", [2]string{"categories: [Robotics]", "categories: [Teleportation]"}, "categories"},
		{"unknown region", [2]string{"regions: [Europe]", "regions: [Atlantis]"}, "regions"},
		{"unknown vertical", [2]string{"verticals: [Hospital]", "verticals: [Moonbase]"}, "verticals"},
		{"dangling related id", [2]string{"related_ids: [b]", "related_ids: [ghost]"}, "related_ids"},
		{"dangling project solution", [2]string{"solution_ids: [a, b]", "solution_ids: [a, ghost]"}, "solution_ids"},
		{"unknown project vertical", [2]string{"vertical: Hospital\n", "vertical: Spaceport\n"}, "vertical"},
		{"duplicate solution id", [2]string{"- id: b\n", "- id: a\n"}, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(minimalDoc, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, minimalDoc, doc, "replacement did not apply")

			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

			var ce *domain.CatalogError
			if assert.ErrorAs(t, err, &ce) {
				assert.Equal(t, tt.field, ce.Field)
			}
		})
	}
}

func TestParse_InvalidRecord(t *testing.T) {
	doc := strings.Replace(minimalDoc, "name: Beta", `name: ""`, 1)
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("solutions: [unclosed"))
	require.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalDoc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Projects(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_EmptyPathUsesBundled(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	b, err := Bundled()
	require.NoError(t, err)
	assert.Equal(t, len(b.Solutions()), len(c.Solutions()))
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c, err := Parse([]byte(minimalDoc))
	require.NoError(t, err)

	ss := c.Solutions()
	ss[0] = ss[1]
	assert.Equal(t, "a", c.Solutions()[0].ID())
}
