package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New[string]()
	c.Set("a", "alpha", time.Minute)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "alpha" {
		t.Errorf("got %q, want %q", got, "alpha")
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	current := time.Now()
	c := New[int]().withClock(func() time.Time { return current })

	c.Set("n", 42, 10*time.Second)
	if _, ok := c.Get("n"); !ok {
		t.Fatal("expected hit before expiry")
	}

	current = current.Add(11 * time.Second)
	if _, ok := c.Get("n"); ok {
		t.Error("expected miss after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry purged, have %d entries", c.Len())
	}
}

func TestSetReplaces(t *testing.T) {
	c := New[int]()
	c.Set("n", 1, time.Minute)
	c.Set("n", 2, time.Minute)

	got, ok := c.Get("n")
	if !ok || got != 2 {
		t.Errorf("got %d (hit=%v), want 2", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, have %d", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting an absent key is a no-op.
	c.Delete("missing")
}

func TestClear(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, have %d entries", c.Len())
	}
}

func TestGetOrCompute(t *testing.T) {
	c := New[int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrCompute("k", time.Minute, compute)
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if got != 7 {
			t.Errorf("got %d, want 7", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 compute call, got %d", calls)
	}
}

func TestGetOrComputeError(t *testing.T) {
	c := New[int]()
	boom := errors.New("boom")

	_, err := c.GetOrCompute("k", time.Minute, func() (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	// Errors are not cached; the next call recomputes.
	got, err := c.GetOrCompute("k", time.Minute, func() (int, error) {
		return 9, nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if got != 9 {
		t.Errorf("got %d, want 9", got)
	}
}

func TestGetOrComputeSingleFlight(t *testing.T) {
	c := New[int]()
	var calls atomic.Int64
	release := make(chan struct{})

	compute := func() (int, error) {
		calls.Add(1)
		<-release
		return 5, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.GetOrCompute("hot", time.Minute, compute)
			if err != nil {
				t.Errorf("GetOrCompute failed: %v", err)
				return
			}
			if got != 5 {
				t.Errorf("got %d, want 5", got)
			}
		}()
	}

	// Give the goroutines time to pile onto the flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 compute call across concurrent callers, got %d", n)
	}
}
