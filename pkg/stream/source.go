package stream

import "sync"

// Stream is a subscribable sequence of typed events.
type Stream[T any] interface {
	// Subscribe registers fn for every subsequent event. The returned
	// function cancels the subscription. fn runs on the publishing
	// goroutine and must not block.
	Subscribe(fn func(T)) (cancel func())
}

// Source is an in-process event broker implementing Stream.
// The zero value is not usable; construct with NewSource.
type Source[T any] struct {
	mu     sync.Mutex
	subs   map[int]func(T)
	nextID int
	closed bool
}

// NewSource creates an empty source.
func NewSource[T any]() *Source[T] {
	return &Source[T]{subs: make(map[int]func(T))}
}

// Subscribe implements Stream. Subscribing to a closed source returns
// a no-op cancel and fn never fires.
func (s *Source[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	s.nextID++
	id := s.nextID
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Publish delivers ev to all current subscribers.
func (s *Source[T]) Publish(ev T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Copy before notify so subscribers may cancel during delivery.
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Close drops all subscribers. Further publishes are ignored.
func (s *Source[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
}

// SubscriberCount reports the number of active subscriptions.
// This is for monitoring/testing purposes.
func (s *Source[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
