// Package session validates the opaque identifiers that key per-visitor state.
package session

import (
	"fmt"
	"regexp"

	"github.com/divergeconnect/connect/internal/domain"
)

// MaxIDLength bounds session identifiers.
const MaxIDLength = 64

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validate checks that id is 1-64 characters of letters, digits, '_' or '-'.
func Validate(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSession, truncate(id))
	}
	return nil
}

func truncate(id string) string {
	if len(id) > MaxIDLength {
		return id[:MaxIDLength] + "..."
	}
	return id
}
