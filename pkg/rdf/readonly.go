package rdf

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/graphmount/graphmount/pkg/errors"
)

// Compile-time interface checks.
var (
	_ DatasetGraph = (*ReadOnly)(nil)
	_ Graph        = (*readOnlyGraph)(nil)
)

// ReadOnly wraps a DatasetGraph so that no mutation can reach the
// underlying store through it. Graphs obtained from the view reject
// Add and Remove with errors.ErrReadOnly, and a write-intent Begin is
// rejected outright unless the legacy WithWriteWarn mode is enabled.
//
// The underlying dataset may still be mutated by other holders of the
// unwrapped reference; the view only guarantees that nothing gets through
// this path.
type ReadOnly struct {
	source DatasetGraph

	// dftOnce guards single construction of the default-graph wrapper,
	// so DefaultGraph always returns the same instance.
	dftOnce sync.Once
	dft     Graph

	// named caches read-only wrappers per graph name. Writes are
	// last-writer-wins: two callers racing on the same previously-unseen
	// name may each construct a wrapper, which wastes a little work but
	// never yields an inconsistent view. Do not rely on wrapper identity
	// across concurrent first calls.
	named sync.Map // string -> Graph

	warnWrites bool
	logger     *zerolog.Logger
}

// ReadOnlyOption configures a ReadOnly view.
type ReadOnlyOption func(*ReadOnly)

// WithWriteWarn restores the legacy behavior for write-intent
// transactions: log a warning and delegate to the underlying dataset
// instead of rejecting. New code should not use this; it exists for
// compatibility with deployments that relied on the old semantics.
func WithWriteWarn(logger *zerolog.Logger) ReadOnlyOption {
	return func(r *ReadOnly) {
		r.warnWrites = true
		r.logger = logger
	}
}

// NewReadOnly creates a read-only view over a dataset.
//
// Example:
//
//	dsg := rdf.NewMemory()
//	view := rdf.NewReadOnly(dsg)
//	err := view.DefaultGraph().Add(t) // Returns errors.ErrReadOnly
func NewReadOnly(source DatasetGraph, opts ...ReadOnlyOption) *ReadOnly {
	r := &ReadOnly{source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin implements DatasetGraph. A write-intent transaction is a usage
// error and is rejected with errors.ErrReadOnly before touching the
// underlying dataset, unless WithWriteWarn was set.
func (r *ReadOnly) Begin(mode TxnMode) error {
	if mode == TxnWrite {
		if !r.warnWrites {
			return errors.WrapResource("begin write txn", "read-only dataset", "", errors.ErrReadOnly)
		}
		log := r.logger
		if log == nil {
			log = &zerolog.Logger{}
		}
		log.Warn().Msg("Write transaction on a read-only dataset")
	}
	return r.source.Begin(mode)
}

// End implements DatasetGraph.
func (r *ReadOnly) End() { r.source.End() }

// DefaultGraph implements DatasetGraph. The wrapper is built once; every
// call returns the same instance.
func (r *ReadOnly) DefaultGraph() Graph {
	r.dftOnce.Do(func() {
		r.dft = &readOnlyGraph{source: r.source.DefaultGraph()}
	})
	return r.dft
}

// Graph implements DatasetGraph. Wrappers are cached per name; a cache
// hit is re-validated against the underlying dataset and evicted if the
// graph no longer exists. A name with no underlying graph never
// populates the cache.
func (r *ReadOnly) Graph(name string) (Graph, bool) {
	if cached, ok := r.named.Load(name); ok {
		if !r.source.ContainsGraph(name) {
			r.named.Delete(name)
			return nil, false
		}
		return cached.(Graph), true
	}

	g, ok := r.source.Graph(name)
	if !ok {
		return nil, false
	}
	wrapped := &readOnlyGraph{source: g}
	r.named.Store(name, wrapped)
	return wrapped, true
}

// ContainsGraph implements DatasetGraph.
func (r *ReadOnly) ContainsGraph(name string) bool {
	return r.source.ContainsGraph(name)
}

// Close implements DatasetGraph. The view holds no resources beyond its
// cache; Close delegates to the source.
func (r *ReadOnly) Close() error {
	return r.source.Close()
}

// readOnlyGraph blocks mutation of the wrapped graph.
type readOnlyGraph struct {
	source Graph
}

// Add implements Graph.
func (g *readOnlyGraph) Add(_ Triple) error { return errors.ErrReadOnly }

// Remove implements Graph.
func (g *readOnlyGraph) Remove(_ Triple) error { return errors.ErrReadOnly }

// Find implements Graph.
func (g *readOnlyGraph) Find(subject, predicate, object string) []Triple {
	return g.source.Find(subject, predicate, object)
}

// Contains implements Graph.
func (g *readOnlyGraph) Contains(t Triple) bool { return g.source.Contains(t) }

// Len implements Graph.
func (g *readOnlyGraph) Len() int { return g.source.Len() }
