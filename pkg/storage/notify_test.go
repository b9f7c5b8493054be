package storage

import (
	"context"
	"testing"
	"time"
)

func TestNotifierWatch(t *testing.T) {
	mem := NewMemoryStore(WithCleanupInterval(0))
	defer mem.Close()
	store := NewNotifier(mem)

	ctx := context.Background()

	var got []string
	cancel := store.Watch("counter", func(data []byte) {
		got = append(got, string(data))
	})

	if err := store.Save(ctx, "counter", []byte("1"), time.Time{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "other", []byte("ignored"), time.Time{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "counter", []byte("2"), time.Time{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("watcher saw %v, want [1 2]", got)
	}

	cancel()
	if err := store.Save(ctx, "counter", []byte("3"), time.Time{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("watcher fired after cancel: %v", got)
	}
}

func TestNotifierDeleteNotifiesNil(t *testing.T) {
	mem := NewMemoryStore(WithCleanupInterval(0))
	defer mem.Close()
	store := NewNotifier(mem)

	ctx := context.Background()
	store.Save(ctx, "k", []byte("v"), time.Time{})

	fired := false
	var payload []byte
	store.Watch("k", func(data []byte) {
		fired = true
		payload = data
	})

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !fired {
		t.Fatal("watcher did not fire on Delete")
	}
	if payload != nil {
		t.Errorf("Delete notification payload = %q, want nil", payload)
	}
}

func TestNotifierMultipleWatchers(t *testing.T) {
	mem := NewMemoryStore(WithCleanupInterval(0))
	defer mem.Close()
	store := NewNotifier(mem)

	ctx := context.Background()
	a, b := 0, 0
	store.Watch("k", func([]byte) { a++ })
	cancelB := store.Watch("k", func([]byte) { b++ })

	store.Save(ctx, "k", []byte("1"), time.Time{})
	cancelB()
	store.Save(ctx, "k", []byte("2"), time.Time{})

	if a != 2 {
		t.Errorf("first watcher fired %d times, want 2", a)
	}
	if b != 1 {
		t.Errorf("cancelled watcher fired %d times, want 1", b)
	}
}

func TestNotifierSaveErrorSkipsNotify(t *testing.T) {
	mem := NewMemoryStore(WithCleanupInterval(0))
	mem.Close()
	store := NewNotifier(mem)

	fired := false
	store.Watch("k", func([]byte) { fired = true })

	if err := store.Save(context.Background(), "k", []byte("v"), time.Time{}); err == nil {
		t.Fatal("Save on closed store did not error")
	}
	if fired {
		t.Error("watcher fired despite Save error")
	}
}

func TestNotifierWatcherCanReenterStore(t *testing.T) {
	mem := NewMemoryStore(WithCleanupInterval(0))
	defer mem.Close()
	store := NewNotifier(mem)

	ctx := context.Background()
	var loaded []byte
	store.Watch("k", func(data []byte) {
		// Watchers run outside the notifier lock, so reads are safe.
		loaded, _ = store.Load(ctx, "k")
	})

	store.Save(ctx, "k", []byte("v"), time.Time{})
	if string(loaded) != "v" {
		t.Errorf("re-entrant Load returned %q, want v", loaded)
	}
}
