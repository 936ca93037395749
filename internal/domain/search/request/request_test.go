package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/domain/search/filter"
	"github.com/divergeconnect/connect/internal/domain/search/mode"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("hello", "", filter.Facets{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "hello" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.Keyword {
		t.Errorf("Mode() = %q, want keyword (default)", r.Mode())
	}
	if r.Limit() != 0 {
		t.Errorf("Limit() = %d, want 0 (all)", r.Limit())
	}
	if !r.Facets().IsEmpty() {
		t.Error("Facets() should be empty")
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	f := filter.NewFacets([]string{"Robotics"}, nil, nil, nil)
	r, err := New("layout", mode.Assisted, f, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != mode.Assisted {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.Limit() != 25 {
		t.Errorf("Limit() = %d", r.Limit())
	}
	if r.Facets().ActiveCount() != 1 {
		t.Errorf("Facets().ActiveCount() = %d", r.Facets().ActiveCount())
	}
}

func TestNew_EmptyQueryAllowed(t *testing.T) {
	if _, err := New("", "", filter.Facets{}, 0); err != nil {
		t.Fatalf("empty query should browse, got %v", err)
	}
}

func TestNew_LimitClamped(t *testing.T) {
	r, err := New("q", "", filter.Facets{}, MaxLimit+50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), MaxLimit)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		mode  mode.Mode
		limit int
		want  string
	}{
		{"query too long", strings.Repeat("a", MaxQueryLength+1), "", 0, "too long"},
		{"invalid mode", "q", "semantic", 0, "invalid search mode"},
		{"negative limit", "q", "", -1, "non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.query, tt.mode, filter.Facets{}, tt.limit)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("error %v should wrap ErrInvalidRequest", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestNew_MaxLengthQueryAccepted(t *testing.T) {
	if _, err := New(strings.Repeat("a", MaxQueryLength), "", filter.Facets{}, 0); err != nil {
		t.Errorf("query at max length should be valid: %v", err)
	}
}
