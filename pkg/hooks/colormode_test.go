package hooks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseColorModeDefault(t *testing.T) {
	store := newTestStore(t)

	cm := UseColorMode(store)
	assert.Equal(t, ColorAuto, cm.Mode())
}

func TestUseColorModeInitialOption(t *testing.T) {
	store := newTestStore(t)

	cm := UseColorMode(store, WithInitialMode(ColorLight))
	assert.Equal(t, ColorLight, cm.Mode())
}

func TestUseColorModeSetPersists(t *testing.T) {
	store := newTestStore(t)

	cm := UseColorMode(store)
	require.NoError(t, cm.Set(ColorDark))
	assert.Equal(t, ColorDark, cm.Mode())

	// A fresh instance picks up the stored value.
	again := UseColorMode(store)
	assert.Equal(t, ColorDark, again.Mode())
}

func TestUseColorModeInstancesConverge(t *testing.T) {
	store := newTestStore(t)

	a := UseColorMode(store)
	b := UseColorMode(store)

	require.NoError(t, a.Set(ColorDark))
	assert.Equal(t, ColorDark, b.Mode())
}

func TestUseColorModeLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	cm := UseColorMode(store)
	require.NoError(t, cm.Set(ColorDark))

	// A stale write arriving through the store loses to the newer
	// local one.
	stale, err := json.Marshal(colorModeRecord{
		Mode:      ColorLight,
		UpdatedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "color-mode", stale, time.Time{}))

	assert.Equal(t, ColorDark, cm.Mode(), "stale write overrode newer value")

	// A newer write wins.
	fresh, err := json.Marshal(colorModeRecord{
		Mode:      ColorLight,
		UpdatedAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "color-mode", fresh, time.Time{}))

	assert.Equal(t, ColorLight, cm.Mode())
}

func TestUseColorModeCustomKey(t *testing.T) {
	store := newTestStore(t)

	cm := UseColorMode(store, WithColorModeKey("theme"))
	require.NoError(t, cm.Set(ColorDark))

	data, err := store.Load(context.Background(), "theme")
	require.NoError(t, err)
	require.NotNil(t, data)
}

func TestUseDarkModeToggle(t *testing.T) {
	store := newTestStore(t)

	dm := UseDarkMode(store)
	assert.False(t, dm.IsDark())

	// Auto resolves to dark on the first toggle.
	require.NoError(t, dm.Toggle())
	assert.True(t, dm.IsDark())

	require.NoError(t, dm.Toggle())
	assert.False(t, dm.IsDark())
	assert.Equal(t, ColorLight, dm.Mode())
}
