// Package identifier maintains the whitelist of 11-character identifiers
// that gate access to the form routes.
package identifier

import (
	"context"
	"errors"
	"regexp"
)

// Length is the exact size of a valid identifier.
const Length = 11

var formatPattern = regexp.MustCompile(`^[A-Za-z0-9]{11}$`)

var (
	// ErrInvalidFormat is returned when a candidate is not 11 ASCII letters or digits.
	ErrInvalidFormat = errors.New("identifier: invalid format")
	// ErrDuplicate is returned when adding an identifier that is already registered.
	ErrDuplicate = errors.New("identifier: already registered")
	// ErrNotFound is returned when removing an identifier that is not registered.
	ErrNotFound = errors.New("identifier: not registered")
	// ErrPersist is returned by Add and Remove when the in-memory change was
	// applied but could not be saved.
	ErrPersist = errors.New("identifier: change not persisted")
	// ErrLoad is returned by Load when persisted state exists but is unreadable.
	ErrLoad = errors.New("identifier: persisted state unreadable")
)

// IsValidFormat reports whether candidate is exactly 11 ASCII letters or digits.
func IsValidFormat(candidate string) bool {
	return formatPattern.MatchString(candidate)
}

// Persister stores the full identifier sequence. Load returns
// sentinel.ErrNotFound when nothing has been persisted yet.
type Persister interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}
