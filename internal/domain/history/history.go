package history

import (
	"fmt"

	"github.com/divergeconnect/connect/internal/domain"
)

// Type classifies what a history entry points at.
type Type string

// History entry types.
const (
	Vertical   Type = "vertical"
	Project    Type = "project"
	Innovation Type = "innovation"
	AI         Type = "ai"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Vertical || t == Project || t == Innovation || t == AI
}

// Item is a single visited page in a session's search history.
type Item struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// Validate checks the caller-supplied fields of an item.
func (i Item) Validate() error {
	if !i.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidHistoryItem, i.Type)
	}
	if i.Path == "" {
		return fmt.Errorf("%w: path is required", domain.ErrInvalidHistoryItem)
	}
	if i.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidHistoryItem)
	}
	return nil
}
