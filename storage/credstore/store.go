package credstore

import (
	"errors"

	"github.com/tharun-r1705/data-frontend-new/core/user"
)

var (
	// ErrNoSession is returned by Read when nothing (valid) is stored.
	ErrNoSession = errors.New("no stored session")
)

// Store is durable persistence for exactly one (token, user) pair.
// It performs no network access and never judges token freshness.
//
// Write must be atomic with respect to readers: no Read may ever observe a
// token without its user record or vice versa.
type Store interface {
	Write(token string, usr user.User) error
	// Read returns the stored pair, or ErrNoSession when nothing is stored.
	// A corrupt stored payload is repaired by clearing the store and is
	// reported as ErrNoSession; corrupt state never propagates.
	Read() (string, user.User, error)
	// Clear removes the pair. It is idempotent.
	Clear() error
}
