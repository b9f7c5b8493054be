package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gouse-dev/gouse/pkg/reactive"
	"github.com/gouse-dev/gouse/pkg/storage"
)

// ColorModeValue is a color-scheme preference.
type ColorModeValue string

const (
	ColorAuto  ColorModeValue = "auto"
	ColorLight ColorModeValue = "light"
	ColorDark  ColorModeValue = "dark"
)

// colorModeRecord is the persisted form. The timestamp carries the
// last-write-wins merge: a concurrent writer with an older stamp
// loses.
type colorModeRecord struct {
	Mode      ColorModeValue `json:"mode"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ColorMode is a persisted color-scheme preference shared across every
// consumer of the same store and key.
type ColorMode struct {
	store storage.Watchable
	key   string
	value *reactive.Signal[ColorModeValue]

	mu        sync.Mutex
	updatedAt time.Time
}

// ColorModeOption configures UseColorMode.
type ColorModeOption func(*colorModeConfig)

type colorModeConfig struct {
	key          string
	initialValue ColorModeValue
}

// WithColorModeKey sets the storage key. Default: "color-mode".
func WithColorModeKey(key string) ColorModeOption {
	return func(c *colorModeConfig) {
		c.key = key
	}
}

// WithInitialMode sets the mode used when nothing is stored yet.
// Default: ColorAuto.
func WithInitialMode(mode ColorModeValue) ColorModeOption {
	return func(c *colorModeConfig) {
		c.initialValue = mode
	}
}

// UseColorMode binds a color-scheme preference to store. The watch is
// released when the current scope is disposed.
func UseColorMode(store storage.Watchable, opts ...ColorModeOption) *ColorMode {
	cfg := &colorModeConfig{
		key:          "color-mode",
		initialValue: ColorAuto,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cm := &ColorMode{
		store: store,
		key:   cfg.key,
	}

	initial := cfg.initialValue
	if data, err := store.Load(context.Background(), cfg.key); err != nil {
		slog.Warn("color mode load failed", "key", cfg.key, "error", err)
	} else if data != nil {
		var rec colorModeRecord
		if err := json.Unmarshal(data, &rec); err == nil && rec.Mode != "" {
			initial = rec.Mode
			cm.updatedAt = rec.UpdatedAt
		}
	}
	cm.value = reactive.NewSignal(initial)

	cancel := store.Watch(cfg.key, cm.apply)
	if s := reactive.CurrentScope(); s != nil {
		s.OnCleanup(cancel)
	}

	return cm
}

func (cm *ColorMode) apply(data []byte) {
	if data == nil {
		return
	}
	var rec colorModeRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Mode == "" {
		return
	}

	cm.mu.Lock()
	if rec.UpdatedAt.Before(cm.updatedAt) {
		// A newer local write already won.
		cm.mu.Unlock()
		return
	}
	cm.updatedAt = rec.UpdatedAt
	cm.mu.Unlock()

	cm.value.Set(rec.Mode)
}

// Mode returns the current preference, tracked.
func (cm *ColorMode) Mode() ColorModeValue {
	return cm.value.Get()
}

// Signal exposes the underlying signal.
func (cm *ColorMode) Signal() *reactive.Signal[ColorModeValue] {
	return cm.value
}

// Set persists mode with the current timestamp.
func (cm *ColorMode) Set(mode ColorModeValue) error {
	cm.mu.Lock()
	cm.updatedAt = time.Now()
	rec := colorModeRecord{Mode: mode, UpdatedAt: cm.updatedAt}
	cm.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode color mode: %w", err)
	}
	if err := cm.store.Save(context.Background(), cm.key, data, time.Time{}); err != nil {
		return fmt.Errorf("save color mode: %w", err)
	}
	cm.value.Set(mode)
	return nil
}

// DarkMode is a boolean view over ColorMode.
type DarkMode struct {
	*ColorMode
}

// UseDarkMode binds a dark-mode preference to store.
func UseDarkMode(store storage.Watchable, opts ...ColorModeOption) *DarkMode {
	return &DarkMode{ColorMode: UseColorMode(store, opts...)}
}

// IsDark reports whether the current mode is dark, tracked.
func (dm *DarkMode) IsDark() bool {
	return dm.Mode() == ColorDark
}

// Toggle flips between light and dark. Auto resolves to dark first.
func (dm *DarkMode) Toggle() error {
	if dm.IsDark() {
		return dm.Set(ColorLight)
	}
	return dm.Set(ColorDark)
}
