// Package cache implements the process-wide resolution cache named in §5:
// keyed by FQN, scoped to exactly one pipeline invocation, and cleared in a
// guaranteed-release scope that encloses stages 1–6. The bookkeeping shape
// (a map guarded by a mutex, with an explicit lifetime owned by the caller)
// follows the teacher's pkg/build.BuildCache, adapted from a disk-backed,
// file-hash cache to an in-memory, per-invocation symbol cache.
package cache

import (
	"sync"

	"github.com/jesslang/jess/pkg/ast"
)

// ResolutionCache memoises ClasspathResolver lookups for the lifetime of one
// pipeline invocation. It is safe for concurrent reads; writes (Put) should
// happen from the single-threaded Resolver pass described in §5, but the
// mutex makes misuse merely slow, never unsafe.
type ResolutionCache struct {
	mu      sync.RWMutex
	types   map[string]ast.Symbol
	members map[string][]ast.Symbol
	closed  bool
}

// New creates an empty, open cache.
func New() *ResolutionCache {
	return &ResolutionCache{
		types:   make(map[string]ast.Symbol),
		members: make(map[string][]ast.Symbol),
	}
}

// GetType returns a cached type symbol, if any.
func (c *ResolutionCache) GetType(fqn string) (ast.Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sym, ok := c.types[fqn]
	return sym, ok
}

// PutType memoises a resolved type symbol.
func (c *ResolutionCache) PutType(fqn string, sym ast.Symbol) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.types[fqn] = sym
}

// GetMembers returns cached member-overload candidates, if any.
func (c *ResolutionCache) GetMembers(ownerFQN, name string) ([]ast.Symbol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	syms, ok := c.members[ownerFQN+"#"+name]
	return syms, ok
}

// PutMembers memoises member-overload candidates.
func (c *ResolutionCache) PutMembers(ownerFQN, name string, syms []ast.Symbol) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.members[ownerFQN+"#"+name] = syms
}

// Release clears the cache and marks it closed, so a subsequent invocation
// that reuses this *ResolutionCache value (which it should not, normally —
// see WithScope) can never observe stale bindings, per §5.
func (c *ResolutionCache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = nil
	c.members = nil
	c.closed = true
}

// WithScope runs fn with a fresh cache and guarantees Release is called
// before returning, even if fn panics — the "guaranteed-release scope
// enclosing stages 1–6" §5 requires.
func WithScope(fn func(*ResolutionCache) error) error {
	c := New()
	defer c.Release()
	return fn(c)
}
