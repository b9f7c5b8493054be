package storage

import (
	"context"
	"sync"
	"time"
)

// Notifier wraps a Store and fans out change notifications to watchers
// registered for individual keys. Notifications are in-process only:
// writes made through a different Notifier (or a different process
// sharing the same backend) are not observed.
type Notifier struct {
	Store

	mu       sync.Mutex
	watchers map[string]map[int]func([]byte)
	nextID   int
}

// NewNotifier wraps s with change notification.
func NewNotifier(s Store) *Notifier {
	return &Notifier{
		Store:    s,
		watchers: make(map[string]map[int]func([]byte)),
	}
}

// Save persists the value and notifies watchers of key on success.
func (n *Notifier) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	if err := n.Store.Save(ctx, key, data, expiresAt); err != nil {
		return err
	}
	n.notify(key, data)
	return nil
}

// Delete removes the key and notifies watchers with a nil payload.
func (n *Notifier) Delete(ctx context.Context, key string) error {
	if err := n.Store.Delete(ctx, key); err != nil {
		return err
	}
	n.notify(key, nil)
	return nil
}

// Watch registers fn for changes to key and returns a cancel function.
// fn runs on the goroutine that performed the write.
func (n *Notifier) Watch(key string, fn func(data []byte)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	if n.watchers[key] == nil {
		n.watchers[key] = make(map[int]func([]byte))
	}
	n.watchers[key][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if ws, ok := n.watchers[key]; ok {
			delete(ws, id)
			if len(ws) == 0 {
				delete(n.watchers, key)
			}
		}
	}
}

func (n *Notifier) notify(key string, data []byte) {
	n.mu.Lock()
	fns := make([]func([]byte), 0, len(n.watchers[key]))
	for _, fn := range n.watchers[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	// Invoke outside the lock so watchers can re-enter the store.
	for _, fn := range fns {
		fn(data)
	}
}
