package stream

import (
	"sync"
	"testing"
)

func TestSourcePublishSubscribe(t *testing.T) {
	src := NewSource[int]()

	var got []int
	cancel := src.Subscribe(func(v int) { got = append(got, v) })

	src.Publish(1)
	src.Publish(2)
	cancel()
	src.Publish(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("subscriber saw %v, want [1 2]", got)
	}
}

func TestSourceMultipleSubscribers(t *testing.T) {
	src := NewSource[string]()

	a, b := 0, 0
	src.Subscribe(func(string) { a++ })
	cancelB := src.Subscribe(func(string) { b++ })

	src.Publish("x")
	cancelB()
	src.Publish("y")

	if a != 2 {
		t.Errorf("first subscriber fired %d times, want 2", a)
	}
	if b != 1 {
		t.Errorf("cancelled subscriber fired %d times, want 1", b)
	}
	if got := src.SubscriberCount(); got != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", got)
	}
}

func TestSourceSubscriberCanCancelDuringDelivery(t *testing.T) {
	src := NewSource[int]()

	fired := 0
	var cancel func()
	cancel = src.Subscribe(func(int) {
		fired++
		cancel()
	})

	src.Publish(1)
	src.Publish(2)

	if fired != 1 {
		t.Errorf("subscriber fired %d times, want 1", fired)
	}
}

func TestSourceClose(t *testing.T) {
	src := NewSource[int]()

	fired := 0
	src.Subscribe(func(int) { fired++ })
	src.Close()

	src.Publish(1)
	if fired != 0 {
		t.Error("subscriber fired after Close")
	}

	// Subscribing after close is a no-op.
	cancel := src.Subscribe(func(int) { fired++ })
	src.Publish(2)
	cancel()
	if fired != 0 {
		t.Error("post-close subscriber fired")
	}
}

func TestSourceConcurrentPublish(t *testing.T) {
	src := NewSource[int]()

	var mu sync.Mutex
	total := 0
	src.Subscribe(func(v int) {
		mu.Lock()
		total += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				src.Publish(1)
			}
		}()
	}
	wg.Wait()

	if total != 1000 {
		t.Errorf("total = %d, want 1000", total)
	}
}
