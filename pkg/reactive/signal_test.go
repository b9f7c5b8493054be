package reactive

import (
	"sync"
	"testing"
)

// testListener counts MarkDirty notifications.
type testListener struct {
	id uint64

	mu    sync.Mutex
	dirty int
}

func newTestListener() *testListener {
	return &testListener{id: nextID()}
}

func (l *testListener) MarkDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty++
}

func (l *testListener) ID() uint64 { return l.id }

func (l *testListener) dirtyCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.dirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.dirtyCount())
	}

	// Same value must not notify.
	count.Set(1)
	if listener.dirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.dirtyCount())
	}

	count.Set(2)
	if listener.dirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.dirtyCount())
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	count := NewSignal(42)
	listener := newTestListener()

	WithListener(listener, func() {
		if got := count.Peek(); got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	count.Set(100)
	if listener.dirtyCount() != 0 {
		t.Errorf("Peek should not subscribe, got %d notifications", listener.dirtyCount())
	}
}

func TestSignalUntracked(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(1)
	if listener.dirtyCount() != 0 {
		t.Errorf("Untracked read should not subscribe, got %d notifications", listener.dirtyCount())
	}
}

func TestSignalCustomEquals(t *testing.T) {
	type point struct{ X, Y int }

	// Only X matters.
	p := NewSignal(point{1, 1}).WithEquals(func(a, b point) bool {
		return a.X == b.X
	})

	listener := newTestListener()
	WithListener(listener, func() { _ = p.Get() })

	p.Set(point{1, 99})
	if listener.dirtyCount() != 0 {
		t.Errorf("equal-by-X write should not notify, got %d", listener.dirtyCount())
	}

	p.Set(point{2, 99})
	if listener.dirtyCount() != 1 {
		t.Errorf("changed X should notify, got %d", listener.dirtyCount())
	}
}

func TestSignalSliceEquality(t *testing.T) {
	s := NewSignal([]int{1, 2, 3})
	listener := newTestListener()
	WithListener(listener, func() { _ = s.Get() })

	s.Set([]int{1, 2, 3})
	if listener.dirtyCount() != 0 {
		t.Errorf("deep-equal slice should not notify, got %d", listener.dirtyCount())
	}

	s.Set([]int{1, 2, 3, 4})
	if listener.dirtyCount() != 1 {
		t.Errorf("changed slice should notify, got %d", listener.dirtyCount())
	}
}

func TestBatchDeduplicatesNotifications(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = a.Get()
		_ = b.Get()
	})

	Batch(func() {
		a.Set(1)
		b.Set(1)
		a.Set(2)
	})

	if listener.dirtyCount() != 1 {
		t.Errorf("batch should notify once, got %d", listener.dirtyCount())
	}
}

func TestSignalConcurrentAccess(t *testing.T) {
	count := NewSignal(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			count.Set(i)
			_ = count.Get()
		}(i)
	}
	wg.Wait()
}
