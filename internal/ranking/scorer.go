// Package ranking holds the pure catalog engines: relevance scoring and
// division grouping. Functions here never mutate their inputs.
package ranking

import (
	"sort"
	"strings"
	"sync"

	"github.com/divergeconnect/connect/internal/domain/search/result"
	"github.com/divergeconnect/connect/internal/domain/solution"
)

// Rule names a scoring rule.
type Rule string

// Scoring rules.
const (
	RuleName            Rule = "name"
	RuleTagline         Rule = "tagline"
	RuleDescription     Rule = "description"
	RuleKeywordCategory Rule = "keyword_category"
	RuleKeywordVertical Rule = "keyword_vertical"
	RuleCategory        Rule = "category"
	RuleVertical        Rule = "vertical"
	RuleRegion          Rule = "region"
	RuleFeature         Rule = "feature"
	RuleUseCase         Rule = "use_case"
)

// Rule points.
const (
	PointsName            = 100
	PointsTagline         = 50
	PointsDescription     = 20
	PointsKeywordCategory = 30
	PointsKeywordVertical = 25
	PointsCategory        = 40
	PointsVertical        = 35
	PointsRegion          = 30
	PointsFeature         = 10
	PointsUseCase         = 15
)

// Contribution is the points a single rule firing added to a score.
type Contribution struct {
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail,omitempty"`
	Points int    `json:"points"`
}

// Explanation breaks a relevance score into rule contributions.
type Explanation struct {
	SolutionID    string         `json:"solution_id"`
	Score         int            `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

// Scorer ranks solutions against a free-text query. Safe for concurrent use.
type Scorer struct {
	keywords KeywordTable
}

// NewScorer creates a Scorer over the given keyword table.
func NewScorer(keywords KeywordTable) *Scorer {
	return &Scorer{keywords: keywords}
}

var (
	defaultScorerOnce sync.Once
	defaultScorer     *Scorer
)

// Default returns the Scorer over the bundled keyword table.
func Default() *Scorer {
	defaultScorerOnce.Do(func() {
		defaultScorer = NewScorer(DefaultKeywords())
	})
	return defaultScorer
}

// Search ranks solutions with the bundled keyword table.
func Search(query string, solutions []solution.Solution) []solution.Solution {
	return Default().Search(query, solutions)
}

// SearchScored is Search keeping the relevance scores.
func SearchScored(query string, solutions []solution.Solution) []result.ScoredSolution {
	return Default().SearchScored(query, solutions)
}

// Keywords returns the scorer's keyword table.
func (sc *Scorer) Keywords() KeywordTable { return sc.keywords }

// Search returns the solutions with a positive score ordered by descending
// score, ties in input order. A blank query returns the input unchanged.
func (sc *Scorer) Search(query string, solutions []solution.Solution) []solution.Solution {
	if strings.TrimSpace(query) == "" {
		return solutions
	}
	return result.Solutions(sc.SearchScored(query, solutions))
}

// SearchScored is Search keeping the relevance scores. A blank query wraps
// every solution with score 0 in input order.
func (sc *Scorer) SearchScored(query string, solutions []solution.Solution) []result.ScoredSolution {
	if strings.TrimSpace(query) == "" {
		out := make([]result.ScoredSolution, len(solutions))
		for i := range solutions {
			out[i] = result.New(solutions[i], 0)
		}
		return out
	}

	q := strings.ToLower(query)
	out := make([]result.ScoredSolution, 0, len(solutions))
	for i := range solutions {
		if score := sc.score(q, &solutions[i], nil); score > 0 {
			out = append(out, result.New(solutions[i], score))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore() > out[j].RelevanceScore()
	})
	return out
}

// Score returns the relevance score of s for query.
func (sc *Scorer) Score(query string, s *solution.Solution) int {
	if strings.TrimSpace(query) == "" {
		return 0
	}
	return sc.score(strings.ToLower(query), s, nil)
}

// Explain returns the per-rule contributions of s for query.
func (sc *Scorer) Explain(query string, s *solution.Solution) Explanation {
	exp := Explanation{SolutionID: s.ID(), Contributions: []Contribution{}}
	if strings.TrimSpace(query) == "" {
		return exp
	}
	exp.Score = sc.score(strings.ToLower(query), s, func(c Contribution) {
		exp.Contributions = append(exp.Contributions, c)
	})
	return exp
}

// score applies every rule to s. q must already be lower-cased.
// record, when non-nil, receives each non-zero contribution.
func (sc *Scorer) score(q string, s *solution.Solution, record func(Contribution)) int {
	total := 0
	add := func(rule Rule, detail string, points int) {
		if points == 0 {
			return
		}
		total += points
		if record != nil {
			record(Contribution{Rule: rule, Detail: detail, Points: points})
		}
	}

	if strings.Contains(strings.ToLower(s.Name()), q) {
		add(RuleName, s.Name(), PointsName)
	}
	if strings.Contains(strings.ToLower(s.Tagline()), q) {
		add(RuleTagline, "", PointsTagline)
	}
	if strings.Contains(strings.ToLower(s.Description()), q) {
		add(RuleDescription, "", PointsDescription)
	}

	rawCategories, rawVerticals := s.Categories(), s.Verticals()
	categories := lowerAll(rawCategories)
	verticals := lowerAll(rawVerticals)

	for _, k := range sc.keywords.entries {
		if !k.Applies(TableCategory) || !strings.Contains(q, k.Keyword) {
			continue
		}
		add(RuleKeywordCategory, k.Keyword, PointsKeywordCategory*countMatching(categories, k.Fragments))
	}
	for _, k := range sc.keywords.entries {
		if !k.Applies(TableVertical) || !strings.Contains(q, k.Keyword) {
			continue
		}
		add(RuleKeywordVertical, k.Keyword, PointsKeywordVertical*countMatching(verticals, k.Fragments))
	}

	for i, c := range categories {
		if strings.Contains(q, c) {
			add(RuleCategory, string(rawCategories[i]), PointsCategory)
		}
	}
	for i, v := range verticals {
		if strings.Contains(q, v) {
			add(RuleVertical, string(rawVerticals[i]), PointsVertical)
		}
	}
	for _, r := range s.Regions() {
		if strings.Contains(q, strings.ToLower(string(r))) {
			add(RuleRegion, string(r), PointsRegion)
		}
	}

	for _, f := range s.Features() {
		if strings.Contains(strings.ToLower(f), q) {
			add(RuleFeature, f, PointsFeature)
		}
	}
	for _, u := range s.UseCases() {
		if strings.Contains(strings.ToLower(u), q) {
			add(RuleUseCase, u, PointsUseCase)
		}
	}
	return total
}

// countMatching counts tags that contain at least one fragment.
func countMatching(tags, fragments []string) int {
	n := 0
	for _, tag := range tags {
		for _, frag := range fragments {
			if strings.Contains(tag, frag) {
				n++
				break
			}
		}
	}
	return n
}

func lowerAll[T ~string](tags []T) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = strings.ToLower(string(t))
	}
	return out
}
