package mount

import (
	"sync"

	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/rdf"
)

// Endpoint is a named, per-dataset binding of a path segment to an
// operation, with an enabled flag. A disabled endpoint still exists:
// dispatch reports it as disabled, not as absent, so operators can tell
// "turned off" from "never existed".
type Endpoint struct {
	Name      string
	Operation Operation

	enabled bool
}

// Enabled reports whether the endpoint accepts dispatch.
func (e *Endpoint) Enabled() bool { return e.enabled }

// State is the lifecycle state of a Service.
type State int

const (
	// Created is the state of a service before the server starts serving.
	Created State = iota
	// Active is the serving state.
	Active
	// Closed is the terminal state; the dataset resource is released.
	Closed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Service owns one mounted dataset: the dataset graph reference, the set
// of named endpoints, and the lifecycle state. Endpoint configuration
// happens before serving; the request path only reads.
type Service struct {
	mu        sync.Mutex
	dataset   rdf.DatasetGraph
	endpoints map[string]*Endpoint
	defaultOp Operation
	state     State
}

// NewService creates a service over the given dataset graph with no
// endpoints. The default operation for content-type fallback is Query.
func NewService(dataset rdf.DatasetGraph) *Service {
	return &Service{
		dataset:   dataset,
		endpoints: make(map[string]*Endpoint),
		defaultOp: Query,
	}
}

// NewReadOnlyService creates a service whose handlers can only ever see a
// provably read-only view of the dataset.
func NewReadOnlyService(dataset rdf.DatasetGraph) *Service {
	return NewService(rdf.NewReadOnly(dataset))
}

// StdService creates a service with the standard endpoint layout:
// query/sparql/get for reading, plus update/data when updates are
// allowed. A service that disallows updates is mounted read-only.
func StdService(dataset rdf.DatasetGraph, allowUpdate bool) *Service {
	var svc *Service
	if allowUpdate {
		svc = NewService(dataset)
	} else {
		svc = NewReadOnlyService(dataset)
	}
	// Endpoint names here follow the conventional layout; the operations
	// are all in the standard set so AddEndpoint cannot fail.
	_ = svc.AddEndpoint("query", Query)
	_ = svc.AddEndpoint("sparql", Query)
	_ = svc.AddEndpoint("get", GraphStoreRead)
	if allowUpdate {
		_ = svc.AddEndpoint("update", Update)
		_ = svc.AddEndpoint("data", GraphStoreReadWrite)
	}
	return svc
}

// Dataset returns the dataset graph reference of the service.
func (s *Service) Dataset() rdf.DatasetGraph { return s.dataset }

// DefaultOperation returns the operation used when neither an explicit
// endpoint name nor a content-type match resolves the request.
func (s *Service) DefaultOperation() Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultOp
}

// SetDefaultOperation sets the fallback operation for the service.
func (s *Service) SetDefaultOperation(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultOp = op
}

// AddEndpoint creates an enabled endpoint binding the name to the
// operation. Endpoint names are unique within a service; a duplicate name
// is a configuration error.
func (s *Service) AddEndpoint(name string, op Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.endpoints[name]; ok {
		return errors.NewConfigError("add endpoint", name, errors.ErrAlreadyExists)
	}
	s.endpoints[name] = &Endpoint{Name: name, Operation: op, enabled: true}
	return nil
}

// Endpoint returns the endpoint with the given name, enabled or not.
func (s *Service) Endpoint(name string) (*Endpoint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.endpoints[name]
	return ep, ok
}

// Endpoints returns all endpoints of the service.
func (s *Service) Endpoints() []*Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Endpoint, 0, len(s.endpoints))
	for _, ep := range s.endpoints {
		out = append(out, ep)
	}
	return out
}

// Enable turns an endpoint back on.
func (s *Service) Enable(name string) error {
	return s.setEnabled(name, true)
}

// Disable turns an endpoint off without removing it.
func (s *Service) Disable(name string) error {
	return s.setEnabled(name, false)
}

func (s *Service) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.endpoints[name]
	if !ok {
		return errors.WrapResource("toggle", "endpoint", name, errors.ErrNotFound)
	}
	ep.enabled = enabled
	return nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GoActive moves the service from Created to Active. Calling it on an
// Active service is a no-op; calling it after Close is an invalid-state
// error.
func (s *Service) GoActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Created:
		s.state = Active
		return nil
	case Active:
		return nil
	default:
		return errors.WrapResource("activate", "service", "", errors.ErrInvalidState)
	}
}

// Close releases the underlying dataset resource. Close is idempotent.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	if s.dataset == nil {
		return nil
	}
	return s.dataset.Close()
}
