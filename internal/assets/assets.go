// Package assets resolves model and texture paths against asset roots.
//
// Loading is asynchronous: Load returns a Handle at once and the file is
// looked up in the background. A missing file is not an error; the handle
// simply ends up in the Missing state and renderers skip it.
package assets

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Faultbox/skybound/internal/logger"
)

// DefaultMaxReads bounds concurrent file reads.
const DefaultMaxReads = 4

// State is the resolution state of a handle.
type State int32

const (
	StatePending State = iota
	StateReady
	StateMissing
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateMissing:
		return "missing"
	}
	return "unknown"
}

// Handle is an opaque reference to a requested asset. The zero Handle refers
// to nothing and reports StateMissing.
type Handle struct {
	e *entry
}

// IsZero reports whether h refers to no asset.
func (h Handle) IsZero() bool { return h.e == nil }

// Path returns the requested path.
func (h Handle) Path() string {
	if h.e == nil {
		return ""
	}
	return h.e.path
}

// State returns the current resolution state.
func (h Handle) State() State {
	if h.e == nil {
		return StateMissing
	}
	return State(h.e.state.Load())
}

// Ready reports whether the asset data is available.
func (h Handle) Ready() bool { return h.State() == StateReady }

// Data returns the file contents once the handle is ready, nil otherwise.
func (h Handle) Data() []byte {
	if h.State() != StateReady {
		return nil
	}
	return h.e.data
}

// Done returns a channel closed when the handle leaves StatePending.
func (h Handle) Done() <-chan struct{} {
	if h.e == nil {
		return closedChan
	}
	return h.e.done
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

type entry struct {
	path  string
	state atomic.Int32
	done  chan struct{}
	data  []byte
}

func (e *entry) resolve(data []byte, state State) {
	e.data = data
	e.state.Store(int32(state))
	close(e.done)
}

// Manager loads assets from a list of root directories.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex

	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *zap.Logger
}

// NewManager creates an asset manager reading from roots.
func NewManager(roots ...string) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		roots:  append([]string(nil), roots...),
		cache:  NewCache(),
		sem:    semaphore.NewWeighted(DefaultMaxReads),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Named("assets"),
	}
}

// AddRoot adds a root directory to search.
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Load requests the asset at path and returns immediately.
// Repeated requests for the same path share one handle.
func (m *Manager) Load(path string) Handle {
	if h, ok := m.cache.Get(path); ok {
		return h
	}

	e := &entry{path: path, done: make(chan struct{})}
	if existing, loaded := m.cache.SetIfAbsent(path, Handle{e: e}); loaded {
		return existing
	}

	if m.ctx.Err() != nil {
		e.resolve(nil, StateMissing)
		return Handle{e: e}
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.fetch(e)
	}()
	return Handle{e: e}
}

func (m *Manager) fetch(e *entry) {
	if err := m.sem.Acquire(m.ctx, 1); err != nil {
		e.resolve(nil, StateMissing)
		return
	}
	defer m.sem.Release(1)

	m.mu.RLock()
	roots := m.roots
	m.mu.RUnlock()

	for i := len(roots) - 1; i >= 0; i-- {
		data, err := os.ReadFile(filepath.Join(roots[i], filepath.FromSlash(e.path)))
		if err == nil {
			e.resolve(data, StateReady)
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			m.log.Debug("asset read failed", zap.String("path", e.path), zap.Error(err))
		}
	}

	m.log.Debug("asset missing", zap.String("path", e.path))
	e.resolve(nil, StateMissing)
}

// Wait blocks until every requested asset has resolved.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close stops pending loads and clears the cache. Pending handles resolve to
// StateMissing. Load must not be called concurrently with Close.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
	m.cache.Clear()
}

// Cache maps requested paths to their shared handles.
type Cache struct {
	data map[string]Handle
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Handle),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return h, ok
}

// SetIfAbsent stores h unless key is present, returning the stored handle and
// whether it already existed.
func (c *Cache) SetIfAbsent(key string, h Handle) (Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.data[key]; ok {
		return existing, true
	}
	c.data[key] = h
	return h, false
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]Handle)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
