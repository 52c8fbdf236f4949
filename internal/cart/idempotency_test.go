package cart

import (
	"bytes"
	"testing"
	"time"
)

func TestIdemGetMiss(t *testing.T) {
	s := NewMemIdemStore()

	if _, ok := s.Get("ctx_1", "k1"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestIdemSetGet(t *testing.T) {
	s := NewMemIdemStore()

	body := []byte(`{"a":1}`)
	s.Set("ctx_1", "k1", body, 10*time.Minute)

	got, ok := s.Get("ctx_1", "k1")
	if !ok || !bytes.Equal(got, body) {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	// Same client key under a different context is a separate record.
	if _, ok := s.Get("ctx_2", "k1"); ok {
		t.Fatal("key leaked across contexts")
	}
}

func TestIdemGetReturnsCopy(t *testing.T) {
	s := NewMemIdemStore()

	s.Set("ctx_1", "k1", []byte(`{"a":1}`), 10*time.Minute)

	got, _ := s.Get("ctx_1", "k1")
	got[0] = 'X'

	again, _ := s.Get("ctx_1", "k1")
	if !bytes.Equal(again, []byte(`{"a":1}`)) {
		t.Fatalf("cache corrupted through returned copy: %q", again)
	}
}

func TestIdemOverwrite(t *testing.T) {
	s := NewMemIdemStore()

	s.Set("ctx_1", "k1", []byte(`1`), 10*time.Minute)
	s.Set("ctx_1", "k1", []byte(`2`), 10*time.Minute)

	got, _ := s.Get("ctx_1", "k1")
	if !bytes.Equal(got, []byte(`2`)) {
		t.Fatalf("got %q, want 2", got)
	}
}

func TestIdemExpiryEvicts(t *testing.T) {
	s := NewMemIdemStore()

	t0 := time.Now()
	s.now = func() time.Time { return t0 }
	s.Set("ctx_1", "k1", []byte(`1`), 10*time.Minute)

	s.now = func() time.Time { return t0.Add(10 * time.Minute) }
	if _, ok := s.Get("ctx_1", "k1"); ok {
		t.Fatal("expired record returned")
	}

	// Even if the clock moved backwards, the record is gone.
	s.now = func() time.Time { return t0 }
	if _, ok := s.Get("ctx_1", "k1"); ok {
		t.Fatal("expired record was not evicted")
	}
}

func TestIdemSweep(t *testing.T) {
	s := NewMemIdemStore()

	t0 := time.Now()
	s.now = func() time.Time { return t0 }
	s.Set("ctx_1", "k1", []byte(`1`), time.Minute)
	s.Set("ctx_1", "k2", []byte(`2`), time.Hour)

	s.now = func() time.Time { return t0.Add(5 * time.Minute) }
	if n := s.Sweep(); n != 1 {
		t.Fatalf("sweep = %d, want 1", n)
	}
	if _, ok := s.Get("ctx_1", "k2"); !ok {
		t.Fatal("live record swept")
	}
}
