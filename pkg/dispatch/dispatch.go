// Package dispatch resolves inbound requests to handlers: dataset lookup
// by path prefix, endpoint or content-type operation resolution, handler
// lookup by content type, and invocation. This is the per-request hot
// path; the registry and catalog it reads are frozen snapshots and need
// no locking.
package dispatch

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/logging"
	"github.com/graphmount/graphmount/pkg/mount"
)

// Resolution is the outcome of resolving one request: the access point,
// the endpoint (nil when the request was resolved by content type or by
// the dataset's default operation rather than an explicit name), the
// operation, and the handler to invoke.
type Resolution struct {
	AccessPoint *mount.AccessPoint
	Endpoint    *mount.Endpoint
	Operation   mount.Operation
	Handler     mount.Handler
}

// ErrorWriter writes a dispatch failure to the response. The server layer
// installs its JSON envelope writer; the default writes a minimal JSON
// body.
type ErrorWriter func(w http.ResponseWriter, status int, err error)

// Dispatcher is an http.Handler that routes dataset requests. It holds
// frozen snapshot references only; per-request state lives on the stack
// and in Counters.
type Dispatcher struct {
	registry *mount.Registry
	catalog  *mount.Catalog
	counters *Counters
	logger   *zerolog.Logger
	writeErr ErrorWriter
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorWriter sets the error response writer.
func WithErrorWriter(w ErrorWriter) Option {
	return func(d *Dispatcher) { d.writeErr = w }
}

// New creates a dispatcher over a frozen registry and catalog.
func New(registry *mount.Registry, catalog *mount.Catalog, logger *zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		catalog:  catalog,
		counters: NewCounters(),
		logger:   logger,
		writeErr: defaultErrorWriter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Counters returns the dispatcher's invocation counters for read-only
// consumption by a statistics collaborator.
func (d *Dispatcher) Counters() *Counters { return d.counters }

// SplitPath splits a request path into a dataset-name segment and a
// remainder at the last slash. The caller is expected to try the whole
// path as a dataset name first; Resolve does both.
func SplitPath(path string) (dataset, remainder string) {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return trimmed, ""
	}
	return trimmed[:idx], trimmed[idx+1:]
}

// Resolve maps a request path and content type to a handler, or to one
// of the dispatch taxonomy errors: ErrDatasetNotFound when no registered
// dataset matches, ErrEndpointDisabled when the named endpoint exists but
// is turned off, ErrOperationNotResolved when no operation can be
// determined, and ErrHandlerNotResolved when a resolved operation has no
// handler in the catalog.
func (d *Dispatcher) Resolve(path, contentType string) (*Resolution, error) {
	// The whole path as a dataset name wins over any split, so a dataset
	// registered as /a/b is reachable even though it contains a slash.
	ap, ok := d.registry.Get(path)
	remainder := ""
	if !ok {
		var dsName string
		dsName, remainder = SplitPath(path)
		if ap, ok = d.registry.Get(dsName); !ok {
			return nil, errors.NewDispatchError(path, "", errors.ErrDatasetNotFound)
		}
	}

	svc := ap.Service()

	var ep *mount.Endpoint
	var op mount.Operation

	switch {
	case remainder != "":
		// An explicit endpoint name always wins over content-type
		// sniffing; naming is unambiguous.
		named, ok := svc.Endpoint(remainder)
		if !ok {
			return nil, errors.NewDispatchError(ap.Name(), remainder, errors.ErrOperationNotResolved)
		}
		if !named.Enabled() {
			return nil, errors.NewDispatchError(ap.Name(), remainder, errors.ErrEndpointDisabled)
		}
		ep, op = named, named.Operation
	default:
		ep, op = d.resolveBare(svc, contentType)
		if op.IsZero() {
			return nil, errors.NewDispatchError(ap.Name(), "", errors.ErrOperationNotResolved)
		}
		if ep != nil && !ep.Enabled() {
			return nil, errors.NewDispatchError(ap.Name(), ep.Name, errors.ErrEndpointDisabled)
		}
	}

	h, ok := d.catalog.Resolve(op, contentType)
	if !ok {
		// The dataset references an operation whose handler is gone:
		// a configuration inconsistency, not a client mistake.
		name := ""
		if ep != nil {
			name = ep.Name
		}
		return nil, errors.NewDispatchError(ap.Name(), name, errors.ErrHandlerNotResolved)
	}

	return &Resolution{AccessPoint: ap, Endpoint: ep, Operation: op, Handler: h}, nil
}

// resolveBare resolves a request addressed to the dataset itself (empty
// remainder): first by matching the content type against endpoints whose
// operation has a content-type-specific handler, then by the service's
// default operation. Endpoints are scanned in name order so resolution
// is deterministic.
func (d *Dispatcher) resolveBare(svc *mount.Service, contentType string) (*mount.Endpoint, mount.Operation) {
	eps := svc.Endpoints()
	sort.Slice(eps, func(i, j int) bool { return eps[i].Name < eps[j].Name })

	if contentType != "" {
		for _, ep := range eps {
			if ep.Enabled() && d.catalog.HasContentType(ep.Operation, contentType) {
				return ep, ep.Operation
			}
		}
	}

	defaultOp := svc.DefaultOperation()
	if defaultOp.IsZero() {
		return nil, mount.Operation{}
	}
	// Prefer an enabled endpoint bound to the default operation; fall
	// back to a disabled one so the caller can report disabled rather
	// than unresolved.
	var disabled *mount.Endpoint
	for _, ep := range eps {
		if ep.Operation != defaultOp {
			continue
		}
		if ep.Enabled() {
			return ep, defaultOp
		}
		if disabled == nil {
			disabled = ep
		}
	}
	if disabled != nil {
		return disabled, defaultOp
	}
	return nil, mount.Operation{}
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	contentType := mediaType(r.Header.Get("Content-Type"))

	res, err := d.Resolve(r.URL.Path, contentType)
	if err != nil {
		status := errors.StatusCode(err)
		d.logger.Info().
			Str("request_id", requestID).
			Str("path", r.URL.Path).
			Int("status", status).
			Err(err).
			Msg("Dispatch failed")
		d.writeErr(w, status, err)
		return
	}

	d.counters.Inc(res.AccessPoint.Name(), res.Operation.ID())

	// Handlers see the request id, dataset and operation both on the
	// Action and through the request context.
	ctx := logging.WithLogger(r.Context(), d.logger)
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = logging.WithDataset(ctx, res.AccessPoint.Name())
	ctx = logging.WithOperation(ctx, res.Operation.ID())
	r = r.WithContext(ctx)
	log := logging.FromContext(ctx)

	endpointName := ""
	if res.Endpoint != nil {
		endpointName = res.Endpoint.Name
	}

	res.Handler.Serve(&mount.Action{
		AccessPoint: res.AccessPoint,
		Endpoint:    res.Endpoint,
		Operation:   res.Operation,
		ID:          requestID,
		Log:         log,
		W:           w,
		R:           r,
	})

	log.Info().
		Str("endpoint", endpointName).
		Dur("duration_ms", time.Since(start)).
		Msg("Dispatched")
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	if ct, _, found := strings.Cut(header, ";"); found {
		return strings.TrimSpace(ct)
	}
	return strings.TrimSpace(header)
}

// defaultErrorWriter writes a minimal JSON error body.
func defaultErrorWriter(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":  nil,
		"error": map[string]string{"message": err.Error()},
	})
}
