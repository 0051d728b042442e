package cache

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestGetMissing(t *testing.T) {
	c := NewTTL[string, int](time.Minute, nil)
	if _, ok := c.Get("absent"); ok {
		t.Error("empty cache must miss")
	}
}

func TestPutGetFresh(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string, int](30*time.Second, clk.Now)

	c.Put("a", 42)
	clk.Advance(29 * time.Second)

	v, ok := c.Get("a")
	if !ok || v != 42 {
		t.Fatalf("expected fresh hit of 42, got %d, %v", v, ok)
	}
}

func TestExpiry(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string, int](30*time.Second, clk.Now)

	c.Put("a", 42)
	clk.Advance(31 * time.Second)

	if _, ok := c.Get("a"); ok {
		t.Fatal("entry past its lifetime must miss")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be evicted on read")
	}
}

func TestPutResetsLifetime(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	c := NewTTL[string, int](30*time.Second, clk.Now)

	c.Put("a", 1)
	clk.Advance(20 * time.Second)
	c.Put("a", 2)
	clk.Advance(20 * time.Second)

	v, ok := c.Get("a")
	if !ok || v != 2 {
		t.Fatalf("overwrite must reset the clock: got %d, %v", v, ok)
	}
}

func TestInvalidateAll(t *testing.T) {
	c := NewTTL[string, int](time.Minute, nil)
	c.Put("a", 1)
	c.Put("b", 2)

	c.InvalidateAll()

	if c.Len() != 0 {
		t.Errorf("expected empty cache, have %d entries", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry must miss")
	}
}

func TestNegativeValueCaching(t *testing.T) {
	// Storing a zero value is a valid hit; callers rely on this to cache
	// negative lookups.
	c := NewTTL[string, *int](time.Minute, nil)
	c.Put("unknown", nil)

	v, ok := c.Get("unknown")
	if !ok || v != nil {
		t.Fatalf("expected cached nil, got %v, %v", v, ok)
	}
}
