package rdf

import (
	"sync"

	"github.com/graphmount/graphmount/pkg/errors"
)

// Compile-time interface checks.
var (
	_ DatasetGraph = (*Memory)(nil)
	_ Graph        = (*memGraph)(nil)
)

// Memory is an in-memory DatasetGraph. It is safe for concurrent use and
// is the default store for tests and ad-hoc serving.
type Memory struct {
	mu     sync.RWMutex
	dft    *memGraph
	named  map[string]*memGraph
	closed bool
}

// NewMemory creates an empty in-memory dataset.
func NewMemory() *Memory {
	return &Memory{
		dft:   newMemGraph(),
		named: make(map[string]*memGraph),
	}
}

// Begin implements DatasetGraph. The in-memory store has no transaction
// machinery; Begin only rejects use after Close.
func (m *Memory) Begin(_ TxnMode) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errors.WrapResource("begin", "dataset", "", errors.ErrInvalidState)
	}
	return nil
}

// End implements DatasetGraph.
func (m *Memory) End() {}

// DefaultGraph implements DatasetGraph.
func (m *Memory) DefaultGraph() Graph {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dft
}

// Graph implements DatasetGraph.
func (m *Memory) Graph(name string) (Graph, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.named[name]
	if !ok {
		return nil, false
	}
	return g, true
}

// ContainsGraph implements DatasetGraph.
func (m *Memory) ContainsGraph(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.named[name]
	return ok
}

// AddGraph creates the named graph if absent and returns it.
func (m *Memory) AddGraph(name string) Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.named[name]
	if !ok {
		g = newMemGraph()
		m.named[name] = g
	}
	return g
}

// RemoveGraph deletes the named graph. Removing an absent graph is not an
// error.
func (m *Memory) RemoveGraph(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.named, name)
}

// Close implements DatasetGraph. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// memGraph is a mutex-protected triple set.
type memGraph struct {
	mu      sync.RWMutex
	triples map[Triple]struct{}
}

func newMemGraph() *memGraph {
	return &memGraph{triples: make(map[Triple]struct{})}
}

// Add implements Graph.
func (g *memGraph) Add(t Triple) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.triples[t] = struct{}{}
	return nil
}

// Remove implements Graph.
func (g *memGraph) Remove(t Triple) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.triples, t)
	return nil
}

// Find implements Graph.
func (g *memGraph) Find(subject, predicate, object string) []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Triple
	for t := range g.triples {
		if subject != "" && t.Subject != subject {
			continue
		}
		if predicate != "" && t.Predicate != predicate {
			continue
		}
		if object != "" && t.Object != object {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Contains implements Graph.
func (g *memGraph) Contains(t Triple) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.triples[t]
	return ok
}

// Len implements Graph.
func (g *memGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}
