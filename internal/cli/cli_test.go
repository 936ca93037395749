package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/divergeconnect/connect/internal/domain"
)

const fixture = `
divisions:
  - {id: "01", label: General Requirements, weight: 1}
  - {id: "28", label: Electronic Safety and Security, weight: 28}
solutions:
  - id: alpha
    name: Alpha
    tagline: Layout robot for elevated decks
    categories: [Robotics, Layout]
    regions: [North America]
    verticals: [Hospital]
    primary_division: "01"
    base_score: 90
    team_size: 11-50
    average_cost: $$
    rating: 4.5
    contact: {name: Ana, email: ana@alpha.example, phone: "555-0100"}
    related_ids: [beta]
  - id: beta
    name: Beta
    tagline: Jobsite cameras
    categories: [Safety]
    regions: [Europe]
    verticals: [Commercial]
    primary_division: "28"
    secondary_divisions: ["01"]
    base_score: 70
    team_size: 51-200
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(p, []byte(fixture), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

// run executes connectctl against the fixture catalog and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--catalog", writeCatalog(t)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch_Text(t *testing.T) {
	out, err := run(t, "search", "layout")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "alpha") || strings.Contains(out, "beta") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "1 of 1 shown") {
		t.Errorf("missing summary line:\n%s", out)
	}
}

func TestSearch_JSONWithFacetsAndExplain(t *testing.T) {
	out, err := run(t, "--json", "search", "-c", "Safety", "-c", "Teleportation", "--explain")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var got searchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got.Results) != 1 || got.Results[0].ID != "beta" {
		t.Errorf("results = %+v, want [beta]", got.Results)
	}
	if len(got.Dropped) != 1 || !strings.Contains(got.Dropped[0], "Teleportation") {
		t.Errorf("dropped = %v", got.Dropped)
	}
}

func TestSearch_ExplainContributions(t *testing.T) {
	out, err := run(t, "--json", "search", "alpha", "--explain")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var got searchOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Results) == 0 {
		t.Fatal("expected results")
	}
	sum := 0
	for _, c := range got.Results[0].Contributions {
		sum += c.Points
	}
	if sum != got.Results[0].Score {
		t.Errorf("contributions sum %d != score %d", sum, got.Results[0].Score)
	}
}

func TestSearch_InvalidLimit(t *testing.T) {
	if _, err := run(t, "search", "--limit", "-1", "x"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSearch_Grouped(t *testing.T) {
	out, err := run(t, "--json", "search", "--grouped")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var groups []groupView
	if err := json.Unmarshal([]byte(out), &groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 2 || groups[0].Division != "01" {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Primary) != 1 || groups[0].Primary[0] != "alpha" {
		t.Errorf("div 01 primary = %v", groups[0].Primary)
	}
	if len(groups[0].Also) != 1 || groups[0].Also[0] != "beta" {
		t.Errorf("div 01 also = %v", groups[0].Also)
	}
}

func TestSolution(t *testing.T) {
	out, err := run(t, "--json", "solution", "alpha")
	if err != nil {
		t.Fatalf("solution: %v", err)
	}
	var v solutionView
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Name != "Alpha" || len(v.Related) != 1 || v.Related[0] != "beta" {
		t.Errorf("view = %+v", v)
	}

	if _, err := run(t, "solution", "ghost"); !errors.Is(err, domain.ErrSolutionNotFound) {
		t.Errorf("expected ErrSolutionNotFound, got %v", err)
	}
}

func TestDivisions(t *testing.T) {
	out, err := run(t, "divisions")
	if err != nil {
		t.Fatalf("divisions: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "General Requirements") {
		t.Errorf("output:\n%s", out)
	}
}

func TestExport_Stdout(t *testing.T) {
	out, err := run(t, "export", "--ids", "beta,alpha")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "Name,Division") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Beta,Div 28") {
		t.Errorf("first row = %q, want shortlist order", lines[1])
	}
}

func TestExport_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shortlist.csv")
	out, err := run(t, "export", "--ids", "alpha", "-o", p)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "wrote 1 solutions") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ana@alpha.example") {
		t.Errorf("csv = %s", data)
	}
}

func TestExport_UnknownID(t *testing.T) {
	if _, err := run(t, "export", "--ids", "alpha,ghost"); !errors.Is(err, domain.ErrSolutionNotFound) {
		t.Errorf("expected ErrSolutionNotFound, got %v", err)
	}
}

func TestExport_RequiresIDs(t *testing.T) {
	if _, err := run(t, "export"); err == nil {
		t.Error("expected error without --ids")
	}
}

func TestGroups(t *testing.T) {
	out, err := run(t, "groups", "--ids", "beta")
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if !strings.Contains(out, "01  General Requirements") || !strings.Contains(out, "beta (also)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestShare(t *testing.T) {
	out, err := run(t, "share", "--ids", "alpha,beta", "--base-url", "https://connect.example/")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if strings.TrimSpace(out) != "https://connect.example/checkout?solutions=alpha,beta" {
		t.Errorf("link = %q", out)
	}

	if _, err := run(t, "share", "--ids", "alpha", "--base-url", "not a url"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "connectctl dev") {
		t.Errorf("output = %q", out)
	}
}

func TestMissingCatalog(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--catalog", filepath.Join(t.TempDir(), "none.yaml"), "divisions"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for missing catalog")
	}
}
