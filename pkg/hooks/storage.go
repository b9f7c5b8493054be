package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/storage"
)

// StorageValue is a reactive value persisted through a storage backend.
// All StorageValues bound to the same store and key converge after a
// write: the store's watch channel is the storage-event analogue.
type StorageValue[T any] struct {
	store        storage.Watchable
	key          string
	defaultValue T
	signal       *reactive.Signal[T]
}

// UseStorage binds a reactive value to store under key. The current
// stored value is loaded synchronously; if the key is absent or
// unreadable the default is used. The watch is released when the
// current scope is disposed.
func UseStorage[T any](store storage.Watchable, key string, defaultValue T) *StorageValue[T] {
	sv := &StorageValue[T]{
		store:        store,
		key:          key,
		defaultValue: defaultValue,
	}

	initial := defaultValue
	if data, err := store.Load(context.Background(), key); err != nil {
		slog.Warn("storage load failed", "key", key, "error", err)
	} else if data != nil {
		if err := json.Unmarshal(data, &initial); err != nil {
			slog.Warn("storage decode failed", "key", key, "error", err)
			initial = defaultValue
		}
	}
	sv.signal = reactive.NewSignal(initial)

	cancel := store.Watch(key, sv.apply)
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(cancel)
	}

	return sv
}

// apply folds a change observed through the store into the signal.
// Writes made by this StorageValue come back through here too; signal
// equality makes the echo a no-op.
func (sv *StorageValue[T]) apply(data []byte) {
	if data == nil {
		sv.signal.Set(sv.defaultValue)
		return
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("storage decode failed", "key", sv.key, "error", err)
		return
	}
	sv.signal.Set(v)
}

// Get returns the current value, tracked.
func (sv *StorageValue[T]) Get() T {
	return sv.signal.Get()
}

// Peek returns the current value without tracking.
func (sv *StorageValue[T]) Peek() T {
	return sv.signal.Peek()
}

// Signal exposes the underlying signal for effects and memos.
func (sv *StorageValue[T]) Signal() *reactive.Signal[T] {
	return sv.signal
}

// Set persists v and updates the signal. Entries never expire; pair
// the store with an expiring backend if that matters.
func (sv *StorageValue[T]) Set(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sv.key, err)
	}
	if err := sv.store.Save(context.Background(), sv.key, data, time.Time{}); err != nil {
		return fmt.Errorf("save %s: %w", sv.key, err)
	}
	// The watch callback has already folded the value in; this Set is
	// for stores whose notifier was bypassed.
	sv.signal.Set(v)
	return nil
}

// Remove deletes the stored entry and resets the signal to the
// default.
func (sv *StorageValue[T]) Remove() error {
	if err := sv.store.Delete(context.Background(), sv.key); err != nil {
		return fmt.Errorf("delete %s: %w", sv.key, err)
	}
	sv.signal.Set(sv.defaultValue)
	return nil
}
