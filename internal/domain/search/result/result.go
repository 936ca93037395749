package result

import "github.com/divergeconnect/connect/internal/domain/solution"

// ScoredSolution decorates a catalog solution with its relevance score.
// The wrapped solution is never modified.
type ScoredSolution struct {
	solution solution.Solution
	score    int
}

// New wraps s with a relevance score.
func New(s solution.Solution, score int) ScoredSolution {
	return ScoredSolution{solution: s, score: score}
}

// Solution returns the wrapped catalog record.
func (r *ScoredSolution) Solution() solution.Solution { return r.solution }

// ID returns the wrapped solution id.
func (r *ScoredSolution) ID() string { return r.solution.ID() }

// RelevanceScore returns the query-match strength (0 for unscored listings).
func (r *ScoredSolution) RelevanceScore() int { return r.score }

// Solutions unwraps a scored list, keeping its order.
func Solutions(rs []ScoredSolution) []solution.Solution {
	out := make([]solution.Solution, len(rs))
	for i := range rs {
		out[i] = rs[i].solution
	}
	return out
}
