package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a context id has never been issued or has
// already been evicted.
var ErrNotFound = errors.New("context not found")

// ExpiredError reports an access to a context past its expiry. The record
// is evicted as a side effect of the failed lookup.
type ExpiredError struct {
	ContextID string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("context %s expired at %s", e.ContextID, e.ExpiredAt.UTC().Format(time.RFC3339))
}

// Session is a cart context with a sliding TTL.
type Session struct {
	ID        string
	ExpiresAt time.Time
}

// Store owns context identity and expiry. Get is the sole expiry gate:
// every consumer of session-scoped state must call it first.
type Store interface {
	Create() (Session, error)
	Get(id string) (Session, error)
	Extend(id string) (Session, error)
	TTL() time.Duration
}
