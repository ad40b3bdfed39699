package dbx

import (
	"sync"
)

// PoolTable is the process-wide mapping from canonical descriptor to live
// pool. It is an explicitly owned registry (constructed at startup, held by
// the Gateway) rather than package-global state, so its lifecycle is tied to
// the application's.
type PoolTable struct {
	config PoolConfig

	mu    sync.Mutex
	pools map[string]*Pool
}

// NewPoolTable - PoolTable constructor. The config applies to every pool the
// table creates.
func NewPoolTable(config PoolConfig) *PoolTable {
	return &PoolTable{
		config: config,
		pools:  make(map[string]*Pool),
	}
}

// GetOrCreate returns the pool for the descriptor, creating it on first
// reference. The check-then-insert is a single critical section: two
// concurrent first-time requests for the same descriptor observe the same
// Pool. No I/O happens under the table lock; connection establishment is the
// pool's own concern, so a slow dial on one descriptor never serializes
// lookups of another.
func (t *PoolTable) GetOrCreate(descriptor Descriptor) (*Pool, error) {
	key := descriptor.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if pool, ok := t.pools[key]; ok {
		return pool, nil
	}

	driver, err := ResolveDriver(descriptor.Scheme)
	if err != nil {
		return nil, err
	}

	pool := NewPool(descriptor, driver, t.config)
	t.pools[key] = pool

	return pool, nil
}

// Remove deletes the descriptor's entry and returns the removed pool, or nil
// when no entry existed. A subsequent GetOrCreate for the same descriptor
// creates a fresh pool.
func (t *PoolTable) Remove(descriptor Descriptor) *Pool {
	key := descriptor.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	pool, ok := t.pools[key]
	if !ok {
		return nil
	}

	delete(t.pools, key)

	return pool
}

// Drain empties the table and returns every removed pool.
func (t *PoolTable) Drain() []*Pool {
	t.mu.Lock()
	defer t.mu.Unlock()

	drained := make([]*Pool, 0, len(t.pools))
	for key, pool := range t.pools {
		drained = append(drained, pool)
		delete(t.pools, key)
	}

	return drained
}

// Len returns the number of live entries.
func (t *PoolTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pools)
}
