package librarystore

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a gateway factory receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTablePrefix is returned when an explicitly empty table prefix option is supplied.
	ErrEmptyTablePrefix = errors.New("empty table prefix supplied")

	// ErrRecordNotFound is returned by single-record lookups when no row matches.
	ErrRecordNotFound = errors.New("record not found")

	// ErrBuildingQueryFailed is returned when a SQL statement could not be built.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrQueryingRecordsFailed is returned when a read statement fails to execute.
	ErrQueryingRecordsFailed = errors.New("querying records failed")

	// ErrScanningRowFailed is returned when a result row could not be mapped to a record.
	ErrScanningRowFailed = errors.New("scanning database row failed")

	// ErrAddingBookFailed is returned when the book insert fails.
	ErrAddingBookFailed = errors.New("adding book failed")

	// ErrUpdatingBookFailed is returned when the book update fails.
	ErrUpdatingBookFailed = errors.New("updating book failed")

	// ErrDeletingBookFailed is returned when the book delete fails.
	ErrDeletingBookFailed = errors.New("deleting book failed")
)

// DefaultGenreID is the genre assigned to books created or updated without an
// explicit genre selection. The schema has no genre-selection feature yet, so
// every write uses this explicit default.
const DefaultGenreID = 1

// ReadErrorPolicy controls how the gateway reacts when a read operation fails.
type ReadErrorPolicy int

const (
	// SuppressReadErrors degrades failed reads to an empty result. Callers
	// cannot tell "no rows" from "query failed"; suppressed errors are still
	// logged at warn level. This is the default for compatibility.
	SuppressReadErrors ReadErrorPolicy = iota

	// PropagateReadErrors returns wrapped sentinel errors for failed reads.
	PropagateReadErrors
)

// String returns a human-readable name for the policy.
func (p ReadErrorPolicy) String() string {
	switch p {
	case PropagateReadErrors:
		return "propagate"
	default:
		return "suppress"
	}
}
