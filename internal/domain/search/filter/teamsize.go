package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// TeamSizeBuckets are the team-size selections offered to users.
var TeamSizeBuckets = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// TeamSize is an inclusive headcount range. Unbounded means no upper limit.
type TeamSize struct {
	Min       int
	Max       int
	Unbounded bool
}

// ParseTeamSize parses "11-50", "500+" or a single number like "25".
func ParseTeamSize(raw string) (TeamSize, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TeamSize{}, fmt.Errorf("team size is empty")
	}

	if head, ok := strings.CutSuffix(s, "+"); ok {
		lo, err := parseCount(head)
		if err != nil {
			return TeamSize{}, fmt.Errorf("team size %q: %w", raw, err)
		}
		return TeamSize{Min: lo, Unbounded: true}, nil
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		minV, err := parseCount(lo)
		if err != nil {
			return TeamSize{}, fmt.Errorf("team size %q: %w", raw, err)
		}
		maxV, err := parseCount(hi)
		if err != nil {
			return TeamSize{}, fmt.Errorf("team size %q: %w", raw, err)
		}
		if maxV < minV {
			return TeamSize{}, fmt.Errorf("team size %q: upper bound below lower bound", raw)
		}
		return TeamSize{Min: minV, Max: maxV}, nil
	}

	n, err := parseCount(s)
	if err != nil {
		return TeamSize{}, fmt.Errorf("team size %q: %w", raw, err)
	}
	return TeamSize{Min: n, Max: n}, nil
}

// Overlaps reports whether two ranges share at least one headcount.
func (t TeamSize) Overlaps(o TeamSize) bool {
	if !o.Unbounded && t.Min > o.Max {
		return false
	}
	if !t.Unbounded && o.Min > t.Max {
		return false
	}
	return true
}

// String renders the range in catalog notation.
func (t TeamSize) String() string {
	if t.Unbounded {
		return strconv.Itoa(t.Min) + "+"
	}
	if t.Min == t.Max {
		return strconv.Itoa(t.Min)
	}
	return strconv.Itoa(t.Min) + "-" + strconv.Itoa(t.Max)
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count: %d", n)
	}
	return n, nil
}
