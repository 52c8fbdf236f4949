package cart

import (
	"sync"
	"time"
)

// IdemStore suppresses replays of mutating requests, keyed per context by
// a client-supplied key. Its TTL is independent of session expiry.
type IdemStore interface {
	Get(contextID, key string) ([]byte, bool)
	Set(contextID, key string, body []byte, ttl time.Duration)
}

type idemRecord struct {
	body      []byte
	expiresAt time.Time
}

type MemIdemStore struct {
	mu  sync.Mutex
	m   map[string]idemRecord
	now func() time.Time
}

func NewMemIdemStore() *MemIdemStore {
	return &MemIdemStore{
		m:   map[string]idemRecord{},
		now: time.Now,
	}
}

func NewIdemStore() IdemStore {
	return NewMemIdemStore()
}

func idemKey(contextID, key string) string {
	return contextID + ":" + key
}

// Get returns an independent copy of the frozen body, or a miss if the
// record is absent or past its expiry (evicting it in that case).
func (s *MemIdemStore) Get(contextID, key string) ([]byte, bool) {
	ck := idemKey(contextID, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.m[ck]
	if !ok {
		return nil, false
	}
	if !s.now().Before(rec.expiresAt) {
		delete(s.m, ck)
		return nil, false
	}

	return append([]byte(nil), rec.body...), true
}

func (s *MemIdemStore) Set(contextID, key string, body []byte, ttl time.Duration) {
	rec := idemRecord{
		body:      append([]byte(nil), body...),
		expiresAt: s.now().Add(ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[idemKey(contextID, key)] = rec
}

// Sweep drops every expired record, for the optional reaper.
func (s *MemIdemStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for ck, rec := range s.m {
		if !now.Before(rec.expiresAt) {
			delete(s.m, ck)
			n++
		}
	}
	return n
}
