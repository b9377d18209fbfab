// Package mount provides the serving model of the graphmount system:
// operations and their handler bindings, per-dataset services with named
// endpoints, and the access-point registry that makes datasets reachable
// by canonical name. Everything here is configured at build time and
// frozen for the serving lifetime; the request path only reads it.
package mount

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/graphmount/graphmount/pkg/rdf"
)

// Operation is a named kind of request processing, independent of which
// dataset it is applied to. Operations are values compared by id and are
// immutable once created.
type Operation struct {
	id   string
	name string
}

// NewOperation creates an operation with a unique id and a human name.
func NewOperation(id, name string) Operation {
	return Operation{id: id, name: name}
}

// ID returns the unique key of the operation.
func (op Operation) ID() string { return op.id }

// Name returns the human name of the operation.
func (op Operation) Name() string { return op.name }

// String implements fmt.Stringer.
func (op Operation) String() string { return op.name }

// IsZero reports whether the operation is the zero value.
func (op Operation) IsZero() bool { return op.id == "" }

// The standard operation set.
var (
	// Query is the SPARQL query operation.
	Query = NewOperation("query", "SPARQL Query")
	// Update is the SPARQL update operation.
	Update = NewOperation("update", "SPARQL Update")
	// GraphStoreRead is the read-only graph store protocol operation.
	GraphStoreRead = NewOperation("gsp-r", "Graph Store Protocol (Read)")
	// GraphStoreReadWrite is the read-write graph store protocol operation.
	GraphStoreReadWrite = NewOperation("gsp-rw", "Graph Store Protocol")
	// NoOperation is a placeholder that never dispatches.
	NoOperation = NewOperation("no-op", "No Operation")
)

// OperationForID returns the standard operation with the given id.
func OperationForID(id string) (Operation, bool) {
	for _, op := range []Operation{Query, Update, GraphStoreRead, GraphStoreReadWrite, NoOperation} {
		if op.id == id {
			return op, true
		}
	}
	return Operation{}, false
}

// Action carries everything a handler needs for one request: the resolved
// access point, endpoint and operation, and the raw request and response
// objects. Request parsing and response writing belong to the handler.
type Action struct {
	AccessPoint *AccessPoint
	Endpoint    *Endpoint
	Operation   Operation

	ID  string // request id
	Log *zerolog.Logger

	W http.ResponseWriter
	R *http.Request
}

// Dataset returns the dataset graph the action operates on. For a
// read-only mount this is the read-only view, never the raw store.
func (a *Action) Dataset() rdf.DatasetGraph {
	return a.AccessPoint.Service().Dataset()
}

// Handler is the executable capability bound to an operation.
type Handler interface {
	Serve(a *Action)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(a *Action)

// Serve implements Handler.
func (f HandlerFunc) Serve(a *Action) { f(a) }
