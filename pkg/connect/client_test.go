package connect

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
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
    contact: {name: Ana, email: ana@alpha.example}
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
projects:
  - id: P-1
    name: Mercy General
    code: MG-01
    vertical: Hospital
    solution_ids: [alpha]
`

type stubExpander struct {
	terms []string
	err   error
}

func (s *stubExpander) Expand(context.Context, string) (Expansion, error) {
	return Expansion{Terms: s.terms, TotalTokens: 12}, s.err
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(context.Background(), append([]Option{WithCatalogData([]byte(fixture))}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_BundledCatalog(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	if len(c.Divisions()) == 0 {
		t.Error("bundled catalog has no divisions")
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNew_InvalidCatalog(t *testing.T) {
	_, err := New(context.Background(), WithCatalogData([]byte("divisions: [{id: \"\"}]")))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestNew_MissingCatalogFile(t *testing.T) {
	if _, err := New(context.Background(), WithCatalogFile("/nonexistent/catalog.yaml")); err == nil {
		t.Error("expected error")
	}
}

func TestSearch_Keyword(t *testing.T) {
	c := newTestClient(t)
	res, err := c.Search(context.Background(), Query{Text: "layout"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].Solution.ID != "alpha" {
		t.Fatalf("results = %+v", res.Results)
	}
	if res.Results[0].Score <= 0 || res.Assisted {
		t.Errorf("score = %d, assisted = %v", res.Results[0].Score, res.Assisted)
	}
	if res.Results[0].Solution.Contact.Email != "ana@alpha.example" {
		t.Errorf("contact not converted: %+v", res.Results[0].Solution.Contact)
	}
}

func TestSearch_FacetsAndLimit(t *testing.T) {
	c := newTestClient(t)
	res, err := c.Search(context.Background(), Query{Regions: []string{"Europe", "Atlantis"}, Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].Solution.ID != "beta" {
		t.Errorf("results = %+v", res.Results)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "region:Atlantis" {
		t.Errorf("dropped = %v", res.Dropped)
	}

	if _, err := c.Search(context.Background(), Query{Limit: -1}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSearch_Assisted(t *testing.T) {
	c := newTestClient(t, WithExpander(&stubExpander{terms: []string{"safety", "warp drive"}}))
	res, err := c.Search(context.Background(), Query{Text: "layout", Assisted: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Assisted {
		t.Fatal("expected assisted results")
	}
	if len(res.Terms) != 1 || res.Terms[0] != "safety" {
		t.Errorf("terms = %v, want [safety]", res.Terms)
	}
	if len(res.Results) != 2 || res.Results[0].Solution.ID != "alpha" || res.Results[1].Solution.ID != "beta" {
		t.Errorf("results = %+v, want direct match then expansion match", res.Results)
	}
}

func TestSearch_AssistedFallback(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t,
		WithExpander(&stubExpander{err: errors.New("timeout")}),
		WithPrometheus(reg),
	)
	res, err := c.Search(context.Background(), Query{Text: "layout", Assisted: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Assisted || len(res.Results) != 1 {
		t.Errorf("expected keyword fallback, got %+v", res)
	}
	if got := testutil.ToFloat64(c.obs.metrics.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}

func TestSearch_AssistedWithoutExpander(t *testing.T) {
	c := newTestClient(t)
	res, err := c.Search(context.Background(), Query{Text: "layout", Assisted: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Assisted {
		t.Error("expected keyword results without an expander")
	}
}

func TestSearchGrouped(t *testing.T) {
	c := newTestClient(t)
	groups, err := c.SearchGrouped(context.Background(), Query{})
	if err != nil {
		t.Fatalf("SearchGrouped: %v", err)
	}
	if len(groups) != 2 || groups[0].Division.ID != "01" || groups[1].Division.ID != "28" {
		t.Fatalf("groups = %+v", groups)
	}
	first := groups[0].Solutions
	if len(first) != 2 || first[0].Solution.ID != "alpha" || !first[0].Primary || first[1].Primary {
		t.Errorf("div 01 placements = %+v", first)
	}
}

func TestBrowse(t *testing.T) {
	c := newTestClient(t)

	sol, err := c.Solution("alpha")
	if err != nil || sol.Name != "Alpha" {
		t.Fatalf("Solution = %+v, %v", sol, err)
	}
	if _, err := c.Solution("ghost"); !errors.Is(err, ErrSolutionNotFound) {
		t.Errorf("expected ErrSolutionNotFound, got %v", err)
	}

	related, err := c.Related("alpha")
	if err != nil || len(related) != 1 || related[0].ID != "beta" {
		t.Errorf("Related = %+v, %v", related, err)
	}

	if ps := c.Projects("mg-"); len(ps) != 1 || ps[0].Vertical != "Hospital" {
		t.Errorf("Projects = %+v", ps)
	}
	if ps := c.Projects("nothing"); len(ps) != 0 {
		t.Errorf("Projects(nothing) = %+v", ps)
	}

	sols, err := c.ProjectSolutions("P-1")
	if err != nil || len(sols) != 1 || sols[0].ID != "alpha" {
		t.Errorf("ProjectSolutions = %+v, %v", sols, err)
	}
	if _, err := c.ProjectSolutions("P-9"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestSelection_Flow(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	sel := c.Selection("s1")

	for _, id := range []string{"beta", "alpha"} {
		if on, err := sel.Toggle(ctx, id); err != nil || !on {
			t.Fatalf("Toggle(%s) = %v, %v", id, on, err)
		}
	}
	ids, err := sel.IDs(ctx)
	if err != nil || strings.Join(ids, ",") != "beta,alpha" {
		t.Fatalf("IDs = %v, %v", ids, err)
	}

	link, err := sel.ShareLink(ctx, "https://connect.example")
	if err != nil || link != "https://connect.example/checkout?solutions=beta,alpha" {
		t.Errorf("ShareLink = %q, %v", link, err)
	}

	var buf bytes.Buffer
	if err := sel.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 3 {
		t.Errorf("csv = %q", buf.String())
	}

	groups, err := sel.Grouped(ctx)
	if err != nil || len(groups) != 2 {
		t.Errorf("Grouped = %+v, %v", groups, err)
	}

	if on, err := sel.Toggle(ctx, "beta"); err != nil || on {
		t.Errorf("second Toggle(beta) = %v, %v", on, err)
	}

	other := c.Selection("s2")
	merged, err := other.MergeLink(ctx, "alpha, ghost,alpha,beta")
	if err != nil || strings.Join(merged, ",") != "alpha,beta" {
		t.Errorf("MergeLink = %v, %v", merged, err)
	}

	if err := sel.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sols, _ := sel.Solutions(ctx); len(sols) != 0 {
		t.Errorf("Solutions after Clear = %+v", sols)
	}
}

func TestSelection_Limit(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, WithSelectionLimit(1))
	sel := c.Selection("s1")

	if _, err := sel.Toggle(ctx, "alpha"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := sel.Toggle(ctx, "beta"); !errors.Is(err, ErrSelectionFull) {
		t.Errorf("expected ErrSelectionFull, got %v", err)
	}
}

func TestSelection_InvalidSession(t *testing.T) {
	if _, err := newTestClient(t).Selection("no spaces").IDs(context.Background()); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestWatchSelections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t)
	changes := c.WatchSelections(ctx)

	if _, err := c.Selection("s1").Toggle(context.Background(), "alpha"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	select {
	case ch := <-changes:
		if ch.Session != "s1" || len(ch.IDs) != 1 || ch.IDs[0] != "alpha" {
			t.Errorf("change = %+v", ch)
		}
	case <-time.After(time.Second):
		t.Fatal("no change received")
	}

	cancel()
	for range changes { //nolint:revive // drain until closed
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, WithHistoryLimit(2))
	h := c.History("s1")

	if _, err := h.Add(ctx, HistoryProject, "Mercy General", "/project-explorer?p=P-1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := h.Add(ctx, HistoryVertical, "Hospital", "/verticals/hospital"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	item, err := h.Add(ctx, HistoryAI, "layout robots", "/search?q=layout")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.ID == "" || item.Timestamp.IsZero() {
		t.Errorf("item = %+v", item)
	}

	items, err := h.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Type != HistoryAI || items[1].Type != HistoryVertical {
		t.Errorf("items = %+v, want newest two", items)
	}

	if _, err := h.Add(ctx, HistoryType("bookmark"), "x", "/x"); !errors.Is(err, ErrInvalidHistoryItem) {
		t.Errorf("expected ErrInvalidHistoryItem, got %v", err)
	}

	if err := h.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if items, _ := h.List(ctx); len(items) != 0 {
		t.Errorf("List after Clear = %+v", items)
	}
}

func TestHealth(t *testing.T) {
	hs := newTestClient(t).Health(context.Background())
	if hs.Status != "ok" {
		t.Errorf("Status = %q, checks = %v", hs.Status, hs.Checks)
	}
}
