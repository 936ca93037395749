package search

import (
	"testing"

	"github.com/divergeconnect/connect/internal/domain/search/result"
	"github.com/divergeconnect/connect/internal/domain/solution"
)

func scored(t *testing.T, id string, score int) result.ScoredSolution {
	t.Helper()
	s, err := solution.New(solution.Params{ID: id, Name: id, PrimaryDivision: "01"})
	if err != nil {
		t.Fatal(err)
	}
	return result.New(s, score)
}

func TestAppendExpanded(t *testing.T) {
	direct := []result.ScoredSolution{scored(t, "a", 90), scored(t, "b", 10)}
	expanded := [][]result.ScoredSolution{
		{scored(t, "c", 200), scored(t, "a", 150)},
		{scored(t, "d", 40), scored(t, "c", 30)},
	}

	got := ids(appendExpanded(direct, expanded))
	if !equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("appendExpanded = %v", got)
	}
}

func TestAppendExpanded_KeepsDirectScores(t *testing.T) {
	direct := []result.ScoredSolution{scored(t, "a", 5)}
	out := appendExpanded(direct, [][]result.ScoredSolution{{scored(t, "a", 500)}})
	if len(out) != 1 || out[0].RelevanceScore() != 5 {
		t.Errorf("direct entry must win, got %+v", out)
	}
}

func TestAppendExpanded_Empty(t *testing.T) {
	if got := appendExpanded(nil, nil); len(got) != 0 {
		t.Errorf("expected empty, got %v", ids(got))
	}
}

func TestKnownTerms(t *testing.T) {
	vocab := map[string]struct{}{"safety": {}, "layout": {}, "north america": {}}
	got := knownTerms([]string{" Safety ", "lasers", "layout", "SAFETY", "North America"}, vocab)
	if !equal(got, []string{"safety", "layout", "north america"}) {
		t.Errorf("knownTerms = %v", got)
	}
}
