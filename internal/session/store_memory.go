package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemStore struct {
	mu  sync.Mutex
	m   map[string]Session
	ttl time.Duration
	now func() time.Time
}

func NewMemStore(ttl time.Duration) *MemStore {
	return &MemStore{
		m:   map[string]Session{},
		ttl: ttl,
		now: time.Now,
	}
}

func NewStore(ttl time.Duration) Store {
	return NewMemStore(ttl)
}

func (s *MemStore) TTL() time.Duration { return s.ttl }

func (s *MemStore) Create() (Session, error) {
	sess := Session{
		ID:        "ctx_" + uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = sess
	return sess, nil
}

func (s *MemStore) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(id)
}

func (s *MemStore) Extend(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return Session{}, err
	}

	sess.ExpiresAt = s.now().Add(s.ttl)
	s.m[id] = sess
	return sess, nil
}

// liveLocked returns the record if it is still alive, evicting it when the
// expiry has passed. Callers must hold s.mu.
func (s *MemStore) liveLocked(id string) (Session, error) {
	sess, ok := s.m[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.m, id)
		return Session{}, &ExpiredError{ContextID: id, ExpiredAt: sess.ExpiresAt}
	}
	return sess, nil
}

// Sweep removes every expired record and reports how many were dropped.
// Expiry is otherwise lazy; this exists for the optional reaper.
func (s *MemStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.m {
		if !now.Before(sess.ExpiresAt) {
			delete(s.m, id)
			n++
		}
	}
	return n
}
