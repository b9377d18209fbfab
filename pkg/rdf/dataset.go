// Package rdf defines the dataset-graph capability the dispatch core is
// built against, together with an in-memory implementation and a read-only
// decorator. The capability is deliberately small: storage engines plug in
// by implementing DatasetGraph, and nothing in this module depends on a
// concrete store.
package rdf

// Triple is a single statement. Fields are opaque terms; this package
// performs no RDF parsing or term interpretation.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// TxnMode selects the intent of a transaction started on a dataset.
type TxnMode int

const (
	// TxnRead is a read-only transaction.
	TxnRead TxnMode = iota
	// TxnWrite is a transaction with write intent.
	TxnWrite
)

// String implements fmt.Stringer.
func (m TxnMode) String() string {
	switch m {
	case TxnRead:
		return "read"
	case TxnWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Graph is a mutable set of triples.
type Graph interface {
	// Add inserts a triple into the graph.
	Add(t Triple) error

	// Remove deletes a triple from the graph. Removing an absent triple
	// is not an error.
	Remove(t Triple) error

	// Find returns the triples matching the pattern. An empty string is
	// a wildcard for that position.
	Find(subject, predicate, object string) []Triple

	// Contains reports whether the graph holds the exact triple.
	Contains(t Triple) bool

	// Len returns the number of triples in the graph.
	Len() int
}

// DatasetGraph is the capability a mounted dataset offers the dispatch
// core: a default graph, named graphs, an existence test, transaction
// boundaries and a close. Implementations are expected to be safe for
// concurrent readers.
type DatasetGraph interface {
	// Begin starts a transaction with the given mode.
	Begin(mode TxnMode) error

	// End finishes the current transaction.
	End()

	// DefaultGraph returns the default graph of the dataset.
	DefaultGraph() Graph

	// Graph returns the named graph, or false if no such graph exists.
	Graph(name string) (Graph, bool)

	// ContainsGraph reports whether the named graph exists.
	ContainsGraph(name string) bool

	// Close releases the resources held by the dataset.
	Close() error
}
