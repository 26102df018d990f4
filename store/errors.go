package store

import (
	"strings"

	"github.com/teranos/depminer/errors"
)

var (
	// ErrRunNotFound is returned when no stored run matches an id.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an id prefix matches several runs.
	ErrAmbiguousRunID = errors.New("ambiguous run id")

	// ErrDatabaseClosed is returned when the store was used after Close.
	ErrDatabaseClosed = errors.New("database is closed")
)

// IsDatabaseClosed checks for ErrDatabaseClosed and for the raw driver message,
// which database/sql returns without a typed error.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
