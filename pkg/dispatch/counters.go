package dispatch

import (
	"sync"
	"sync/atomic"
)

type counterKey struct {
	dataset   string
	operation string
}

// Counters records per-dataset, per-operation invocation counts. Inc is
// lock-free on the hot path once a counter exists; first use of a
// (dataset, operation) pair allocates it via LoadOrStore.
type Counters struct {
	m sync.Map // counterKey -> *atomic.Int64
}

// NewCounters creates an empty counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// Inc increments the counter for the (dataset, operation) pair.
func (c *Counters) Inc(dataset, operation string) {
	key := counterKey{dataset: dataset, operation: operation}
	if v, ok := c.m.Load(key); ok {
		v.(*atomic.Int64).Add(1)
		return
	}
	v, _ := c.m.LoadOrStore(key, &atomic.Int64{})
	v.(*atomic.Int64).Add(1)
}

// Value returns the current count for the (dataset, operation) pair.
func (c *Counters) Value(dataset, operation string) int64 {
	if v, ok := c.m.Load(counterKey{dataset: dataset, operation: operation}); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

// Snapshot returns a point-in-time, read-only copy of all counters,
// keyed by dataset then operation id.
func (c *Counters) Snapshot() map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	c.m.Range(func(k, v any) bool {
		key := k.(counterKey)
		byOp, ok := out[key.dataset]
		if !ok {
			byOp = make(map[string]int64)
			out[key.dataset] = byOp
		}
		byOp[key.operation] = v.(*atomic.Int64).Load()
		return true
	})
	return out
}
