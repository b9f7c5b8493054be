package storage

import (
	"context"
	"time"
)

// Store defines the interface for state persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a value under key. If the key already exists it is
	// overwritten. A zero expiresAt means the entry never expires.
	Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error

	// Load retrieves a value by key.
	// Returns (nil, nil) if the key doesn't exist or has expired.
	// Returns (data, nil) if found and not expired.
	// Returns (nil, err) on backend errors.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Should not return an error if the key
	// doesn't exist.
	Delete(ctx context.Context, key string) error

	// Touch updates the expiration time without rewriting the value.
	// More efficient than Load+Save for keep-alive operations.
	// Should not return an error if the key doesn't exist.
	Touch(ctx context.Context, key string, expiresAt time.Time) error

	// Close releases any resources held by the store.
	Close() error
}

// Watchable is a Store that can report changes made through it.
// The Notifier wrapper upgrades any Store to Watchable.
type Watchable interface {
	Store

	// Watch registers fn to run whenever key is saved or deleted
	// through this store. On delete fn receives nil. The returned
	// function cancels the watch.
	Watch(key string, fn func(data []byte)) (cancel func())
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "storage: store is closed"
}
