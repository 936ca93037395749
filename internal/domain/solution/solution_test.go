package solution

import (
	"strings"
	"testing"

	"github.com/divergeconnect/connect/internal/domain/taxonomy"
)

func validParams() Params {
	return Params{
		ID:                 "robolayer",
		Name:               "RoboLayer",
		Categories:         []taxonomy.Category{taxonomy.Robotics, taxonomy.Layout},
		Regions:            []taxonomy.Region{taxonomy.NorthAmerica},
		Verticals:          []taxonomy.Vertical{taxonomy.Hospital},
		Features:           []string{"Autonomous floor marking"},
		PrimaryDivision:    "01",
		SecondaryDivisions: []string{"09"},
		BaseScore:          80,
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID() != "robolayer" {
		t.Errorf("ID() = %q, want robolayer", s.ID())
	}
	if s.BaseScore() != 80 {
		t.Errorf("BaseScore() = %d, want 80", s.BaseScore())
	}
	if len(s.Categories()) != 2 {
		t.Errorf("Categories() len = %d, want 2", len(s.Categories()))
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		want   string
	}{
		{"missing id", func(p *Params) { p.ID = "" }, "id is required"},
		{"missing name", func(p *Params) { p.Name = "" }, "name is required"},
		{"missing division", func(p *Params) { p.PrimaryDivision = "" }, "primary division"},
		{"negative score", func(p *Params) { p.BaseScore = -1 }, "non-negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should contain %q", err.Error(), tc.want)
			}
		})
	}
}

func TestSolution_IsImmutable(t *testing.T) {
	p := validParams()
	s, err := New(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the input after construction must not leak in.
	p.Categories[0] = taxonomy.Safety
	if s.Categories()[0] != taxonomy.Robotics {
		t.Error("constructor must copy input slices")
	}

	// Mutating an accessor result must not leak in either.
	cats := s.Categories()
	cats[0] = taxonomy.AI
	if s.Categories()[0] != taxonomy.Robotics {
		t.Error("accessor must return a copy")
	}
}

func TestSolution_InDivision(t *testing.T) {
	s, err := New(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.InDivision("01") {
		t.Error("expected primary division match")
	}
	if !s.InDivision("09") {
		t.Error("expected secondary division match")
	}
	if s.InDivision("28") {
		t.Error("unexpected match for unrelated division")
	}
}
