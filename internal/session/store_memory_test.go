package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCreateAndGet(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(created.ID, "ctx_") {
		t.Fatalf("id = %q, want ctx_ prefix", created.ID)
	}
	if !created.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiresAt %v not in the future", created.ExpiresAt)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID || !got.ExpiresAt.Equal(created.ExpiresAt) {
		t.Fatalf("get = %+v, want %+v", got, created)
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	if _, err := s.Get("ctx_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExtendIsMonotonic(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	t0 := time.Now()
	s.now = func() time.Time { return t0 }

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s.now = func() time.Time { return t0.Add(time.Minute) }

	extended, err := s.Extend(created.ID)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !extended.ExpiresAt.After(created.ExpiresAt) {
		t.Fatalf("extend expiresAt %v not after %v", extended.ExpiresAt, created.ExpiresAt)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("get after extend: %v", err)
	}
	if !got.ExpiresAt.Equal(extended.ExpiresAt) {
		t.Fatalf("stored expiry %v, want %v", got.ExpiresAt, extended.ExpiresAt)
	}
}

func TestGetExpiredEvicts(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	t0 := time.Now()
	s.now = func() time.Time { return t0 }

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s.now = func() time.Time { return t0.Add(16 * time.Minute) }

	var expired *ExpiredError
	_, err = s.Get(created.ID)
	if !errors.As(err, &expired) {
		t.Fatalf("err = %v, want ExpiredError", err)
	}
	if !expired.ExpiredAt.Equal(created.ExpiresAt) {
		t.Fatalf("expiredAt = %v, want %v", expired.ExpiredAt, created.ExpiresAt)
	}

	// The record was evicted by the failed lookup.
	if _, err := s.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second get err = %v, want ErrNotFound", err)
	}
}

func TestExtendExpired(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	t0 := time.Now()
	s.now = func() time.Time { return t0 }

	created, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s.now = func() time.Time { return t0.Add(15 * time.Minute) }

	var expired *ExpiredError
	if _, err := s.Extend(created.ID); !errors.As(err, &expired) {
		t.Fatalf("err = %v, want ExpiredError", err)
	}
}

func TestSweep(t *testing.T) {
	s := NewMemStore(15 * time.Minute)

	t0 := time.Now()
	s.now = func() time.Time { return t0 }

	a, _ := s.Create()
	b, _ := s.Create()

	s.now = func() time.Time { return t0.Add(20 * time.Minute) }
	live, _ := s.Create()

	if n := s.Sweep(); n != 2 {
		t.Fatalf("sweep = %d, want 2", n)
	}

	for _, id := range []string{a.ID, b.ID} {
		if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("get %s err = %v, want ErrNotFound", id, err)
		}
	}
	if _, err := s.Get(live.ID); err != nil {
		t.Fatalf("live session swept: %v", err)
	}
}
