package mount

import (
	"sort"

	"github.com/graphmount/graphmount/pkg/errors"
)

// Registry maps canonical dataset names to access points. It is mutated
// during configuration and by administrative teardown only; the request
// path treats it as a frozen snapshot. NewRegistryFrom produces the
// independent copy a server freezes at build time.
type Registry struct {
	points map[string]*AccessPoint
}

// NewRegistry creates an empty access-point registry.
func NewRegistry() *Registry {
	return &Registry{points: make(map[string]*AccessPoint)}
}

// NewRegistryFrom creates a registry with its own map over the same
// access points. Mutating the copy never affects the source, and vice
// versa.
func NewRegistryFrom(src *Registry) *Registry {
	r := NewRegistry()
	if src == nil {
		return r
	}
	for name, ap := range src.points {
		r.points[name] = ap
	}
	return r
}

// Register adds an access point. A duplicate canonical name is a
// configuration error and leaves the registry unchanged; registration
// never silently overwrites.
func (r *Registry) Register(ap *AccessPoint) error {
	if _, ok := r.points[ap.Name()]; ok {
		return errors.NewConfigError("register dataset", ap.Name(), errors.ErrAlreadyExists)
	}
	r.points[ap.Name()] = ap
	return nil
}

// Get looks up an access point, canonicalizing the name first so that
// "ds", "/ds" and "/ds/" all reach the same entry.
func (r *Registry) Get(name string) (*AccessPoint, bool) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, false
	}
	ap, ok := r.points[canonical]
	return ap, ok
}

// IsRegistered reports whether the canonical form of the name is present.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Unregister removes an entry. Used for administrative teardown; it is
// not on the request path.
func (r *Registry) Unregister(name string) {
	canonical, err := Canonical(name)
	if err != nil {
		return
	}
	delete(r.points, canonical)
}

// Len returns the number of registered access points.
func (r *Registry) Len() int { return len(r.points) }

// Names returns the registered canonical names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.points))
	for name := range r.points {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForEach calls fn for every registered access point.
func (r *Registry) ForEach(fn func(name string, ap *AccessPoint)) {
	for name, ap := range r.points {
		fn(name, ap)
	}
}
