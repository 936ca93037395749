package division

import (
	"fmt"
	"sort"
)

// Division is an industry classification bucket (CSI MasterFormat division).
type Division struct {
	id     string
	code   string
	label  string
	weight int
}

// New validates and creates a Division.
func New(id, code, label string, weight int) (Division, error) {
	if id == "" {
		return Division{}, fmt.Errorf("division id is required")
	}
	if label == "" {
		return Division{}, fmt.Errorf("division %q: label is required", id)
	}
	if code == "" {
		code = id
	}
	return Division{id: id, code: code, label: label, weight: weight}, nil
}

// ID returns the division identifier referenced by solutions.
func (d Division) ID() string { return d.id }

// Code returns the display code.
func (d Division) Code() string { return d.code }

// Label returns the display label.
func (d Division) Label() string { return d.label }

// Weight returns the presentation ordering key (ascending).
func (d Division) Weight() int { return d.weight }

// SortByWeight returns a copy of divisions ordered by ascending weight.
// Divisions with equal weight keep their input order.
func SortByWeight(divisions []Division) []Division {
	out := make([]Division, len(divisions))
	copy(out, divisions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].weight < out[j].weight
	})
	return out
}
