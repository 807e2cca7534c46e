package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func waitResolved(t *testing.T, h Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("asset %s did not resolve", h.Path())
	}
}

func TestLoadResolvesAsync(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "models/tree1.glb", "tree")

	m := NewManager(root)
	defer m.Close()

	h := m.Load("models/tree1.glb")
	assert.Equal(t, "models/tree1.glb", h.Path())
	waitResolved(t, h)

	assert.Equal(t, StateReady, h.State())
	assert.True(t, h.Ready())
	assert.Equal(t, []byte("tree"), h.Data())
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	m := NewManager(t.TempDir())
	defer m.Close()

	h := m.Load("models/meteor1.glb")
	waitResolved(t, h)
	assert.Equal(t, StateMissing, h.State())
	assert.Nil(t, h.Data())
}

func TestLoadSharesHandles(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "textures/grass.png", "px")

	m := NewManager(root)
	defer m.Close()

	a := m.Load("textures/grass.png")
	b := m.Load("textures/grass.png")
	m.Wait()
	assert.Equal(t, a, b)
	hits, misses := m.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestRootPriority(t *testing.T) {
	base, override := t.TempDir(), t.TempDir()
	writeAsset(t, base, "models/house.glb", "base")
	writeAsset(t, override, "models/house.glb", "override")
	writeAsset(t, base, "models/roof.glb", "roof")

	m := NewManager(base)
	m.AddRoot(override)
	defer m.Close()

	house := m.Load("models/house.glb")
	roof := m.Load("models/roof.glb")
	m.Wait()

	assert.Equal(t, []byte("override"), house.Data())
	assert.Equal(t, []byte("roof"), roof.Data())
}

func TestNoRoots(t *testing.T) {
	m := NewManager()
	defer m.Close()

	h := m.Load("models/drone.glb")
	m.Wait()
	assert.Equal(t, StateMissing, h.State())
}

func TestZeroHandle(t *testing.T) {
	var h Handle
	assert.True(t, h.IsZero())
	assert.Equal(t, StateMissing, h.State())
	assert.Equal(t, "", h.Path())
	select {
	case <-h.Done():
	default:
		t.Fatal("zero handle should be resolved")
	}
}

func TestLoadAfterClose(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "a.bin", "a")

	m := NewManager(root)
	m.Close()

	h := m.Load("a.bin")
	waitResolved(t, h)
	assert.Equal(t, StateMissing, h.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "missing", StateMissing.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestCache(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("x")
	assert.False(t, ok)

	h := Handle{e: &entry{path: "x", done: make(chan struct{})}}
	stored, existed := c.SetIfAbsent("x", h)
	assert.False(t, existed)
	assert.Equal(t, h, stored)

	other := Handle{e: &entry{path: "x", done: make(chan struct{})}}
	stored, existed = c.SetIfAbsent("x", other)
	assert.True(t, existed)
	assert.Equal(t, h, stored)

	got, ok := c.Get("x")
	assert.True(t, ok)
	assert.Equal(t, h, got)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	hits, misses = c.Stats()
	assert.Zero(t, hits+misses)
}
