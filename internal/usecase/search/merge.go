package search

import (
	"strings"

	"github.com/divergeconnect/connect/internal/domain/search/result"
)

// appendExpanded keeps direct results in order and appends, term by term,
// the expansion hits that are not already present.
func appendExpanded(direct []result.ScoredSolution, expanded [][]result.ScoredSolution) []result.ScoredSolution {
	seen := make(map[string]struct{}, len(direct))
	out := make([]result.ScoredSolution, 0, len(direct))
	for i := range direct {
		seen[direct[i].ID()] = struct{}{}
		out = append(out, direct[i])
	}
	for _, hits := range expanded {
		for i := range hits {
			id := hits[i].ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, hits[i])
		}
	}
	return out
}

// knownTerms keeps the suggested terms found in vocabulary, lower-cased,
// deduplicated, in suggestion order.
func knownTerms(terms []string, vocabulary map[string]struct{}) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if _, ok := vocabulary[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
