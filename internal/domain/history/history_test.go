package history

import (
	"errors"
	"testing"

	"github.com/divergeconnect/connect/internal/domain"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"valid", Item{Type: AI, Title: "layout robotics", Path: "/ai-explore?q=layout"}, false},
		{"unknown type", Item{Type: "page", Title: "x", Path: "/x"}, true},
		{"missing path", Item{Type: Vertical, Title: "Datacenter Solutions"}, true},
		{"missing title", Item{Type: Project, Path: "/project-explorer?p=p1"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidHistoryItem) {
					t.Fatalf("expected ErrInvalidHistoryItem, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
