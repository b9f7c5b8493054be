package state

import (
	"sync"
	"testing"

	"github.com/gouse-dev/gouse/pkg/reactive"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	sig := Create(r, "count", 10)
	if sig.Get() != 10 {
		t.Errorf("expected initial 10, got %d", sig.Get())
	}

	// Create again returns the same signal; the new initial is ignored.
	again := Create(r, "count", 99)
	if again != sig {
		t.Error("Create must return the existing signal for a known key")
	}
	if again.Get() != 10 {
		t.Errorf("existing value preserved, got %d", again.Get())
	}

	got, ok := Get[int](r, "count")
	if !ok || got != sig {
		t.Error("Get must find the created signal")
	}

	if !r.Set("count", 42) {
		t.Error("Set with matching type must succeed")
	}
	if sig.Get() != 42 {
		t.Errorf("expected 42, got %d", sig.Get())
	}
	if r.Set("count", "wrong type") {
		t.Error("Set with wrong type must report failure")
	}
	if r.Set("missing", 1) {
		t.Error("Set on unknown key must report failure")
	}

	r.Reset("count")
	if sig.Get() != 10 {
		t.Errorf("Reset must restore the initial value, got %d", sig.Get())
	}

	r.Destroy("count")
	if _, ok := Get[int](r, "count"); ok {
		t.Error("destroyed key must not resolve")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d entries", r.Len())
	}

	// Fresh Create after Destroy yields a new signal.
	fresh := Create(r, "count", 7)
	if fresh == sig {
		t.Error("Create after Destroy must yield a fresh signal")
	}
}

func TestRegistryResetAll(t *testing.T) {
	r := NewRegistry()
	a := Create(r, "a", 1)
	b := Create(r, "b", "x")

	a.Set(100)
	b.Set("y")
	r.ResetAll()

	if a.Get() != 1 || b.Get() != "x" {
		t.Errorf("ResetAll must restore initial values, got %d %q", a.Get(), b.Get())
	}
}

func TestRegistryTypeMismatchPanics(t *testing.T) {
	r := NewRegistry()
	Create(r, "key", 1)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on type mismatch")
		}
	}()
	Create(r, "key", "string now")
}

func TestRegistrySignalsAreReactive(t *testing.T) {
	r := NewRegistry()
	sig := Create(r, "n", 0)

	var seen []int
	reactive.NewEffect(func() reactive.Cleanup {
		seen = append(seen, sig.Get())
		return nil
	})

	r.Set("n", 5)

	if len(seen) != 2 || seen[1] != 5 {
		t.Errorf("registry writes must notify subscribers, got %v", seen)
	}
}

func TestRegistryConcurrentCreate(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	signals := make([]*reactive.Signal[int], 20)
	for i := range signals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			signals[i] = Create(r, "shared", 0)
		}(i)
	}
	wg.Wait()

	for _, s := range signals[1:] {
		if s != signals[0] {
			t.Fatal("concurrent Create must converge on one signal")
		}
	}
}
