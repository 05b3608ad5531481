package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDir(t *testing.T, dir string) {
	t.Helper()
	old := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(old) })
}

func TestLoadWorldSpec(t *testing.T) {
	withDir(t, "")
	spec, err := LoadWorldSpec()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/60.0, spec.TimeStep, 1e-6)
	assert.Equal(t, 6, spec.VelocityIterations)
	assert.Equal(t, -10.0, spec.GravityY)
	assert.Equal(t, -0.1, spec.Stomp.Velocity)
	assert.Contains(t, spec.Surfaces, "ground")
	assert.Equal(t, "wall", spec.Surfaces["wall"].Role)
}

func TestEveryPrefabParses(t *testing.T) {
	withDir(t, "")
	entries, err := PrefabsFS.ReadDir(".")
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name() == "world.yaml" {
			continue
		}
		spec, err := LoadEntityBuildSpec(e.Name())
		require.NoError(t, err, e.Name())
		assert.NotEmpty(t, spec.Name, e.Name())
		assert.Contains(t, spec.Components, "physics_body", e.Name())
	}
}

func TestLoadMissing(t *testing.T) {
	withDir(t, "")
	_, err := LoadEntityBuildSpec("ghost.yaml")
	assert.Error(t, err)
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	withDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coin.yaml"), []byte("name: shiny\ncomponents:\n  coin: {}\n"), 0o644))

	spec, err := LoadEntityBuildSpec("prefabs/coin.yaml")
	require.NoError(t, err)
	assert.Equal(t, "shiny", spec.Name)

	_, ok := ModTime("coin.yaml")
	assert.True(t, ok)
	_, ok = ModTime("key.yaml")
	assert.False(t, ok)

	// files missing on disk fall back to the embedded copy
	spec, err = LoadEntityBuildSpec("key.yaml")
	require.NoError(t, err)
	assert.Equal(t, "key", spec.Name)
}

func TestDecodeComponentSpec(t *testing.T) {
	got, err := DecodeComponentSpec[PhysicsBodyComponentSpec](map[string]any{
		"role":   "player",
		"width":  16,
		"feet":   map[string]any{"offset_y": -9},
		"static": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "player", got.Role)
	assert.Equal(t, 16.0, got.Width)
	assert.True(t, got.Static)
	require.NotNil(t, got.Feet)
	assert.Equal(t, -9.0, got.Feet.OffsetY)

	zero, err := DecodeComponentSpec[HealthComponentSpec](nil)
	require.NoError(t, err)
	assert.Zero(t, zero.Max)

	_, err = DecodeComponentSpec[HealthComponentSpec](map[string]any{"max": "lots"})
	assert.Error(t, err)
}

func TestWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enemy.yaml"), []byte("name: enemy\n"), 0o644))

	var seen []string
	require.Eventually(t, func() bool {
		seen = append(seen, w.Poll()...)
		return len(seen) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"enemy.yaml"}, seen)
}

func TestWatcherDebouncesAndSorts(t *testing.T) {
	w := &Watcher{pending: map[string]struct{}{}, last: map[string]time.Time{}}
	now := time.Now()
	w.record("/tmp/p/player.yaml", now)
	w.record("/tmp/p/player.yaml", now.Add(debounce/2))
	w.record("/tmp/p/coin.yaml", now)

	assert.Equal(t, []string{"coin.yaml", "player.yaml"}, w.Poll())

	w.record("/tmp/p/player.yaml", now.Add(debounce/2+time.Millisecond))
	assert.Nil(t, w.Poll())
	w.record("/tmp/p/player.yaml", now.Add(2*debounce))
	assert.Equal(t, []string{"player.yaml"}, w.Poll())
}

func TestNilWatcher(t *testing.T) {
	var w *Watcher
	assert.Nil(t, w.Poll())
	assert.NoError(t, w.Close())
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
