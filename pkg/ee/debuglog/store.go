// Package debuglog persists debug messages emitted by library contexts.
package debuglog

import (
	"errors"
	"time"
)

// Store persists debug messages keyed by context ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores msg as the next entry for contextID.
	Append(contextID, msg string) error

	// List returns all entries for a context, ordered by sequence.
	// Returns empty slice (not error) if the context has no entries.
	List(contextID string) ([]Entry, error)

	// Contexts returns the IDs of all contexts with at least one entry, sorted.
	Contexts() ([]string, error)

	// DeleteContext removes all entries for a context.
	// Returns nil if the context has no entries.
	DeleteContext(contextID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one stored debug message.
type Entry struct {
	ContextID string
	// Sequence starts at 1 for each context.
	Sequence  int
	Timestamp time.Time
	Message   string
	// Length is len(Message) in bytes.
	Length int
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("debug log store closed")
