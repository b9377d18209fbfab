package mount

import (
	"strings"

	"github.com/graphmount/graphmount/pkg/errors"
)

// Canonical normalizes a dataset name to its registry key: a leading
// slash, no trailing slash, no internal double slashes. Two spellings of
// the same logical name canonicalize identically, and the function is
// idempotent.
func Canonical(name string) (string, error) {
	if name == "" {
		return "", errors.WrapResource("canonicalize", "dataset name", name, errors.ErrInvalidName)
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	for strings.HasSuffix(name, "/") && len(name) > 1 {
		name = name[:len(name)-1]
	}
	if name == "/" {
		return "", errors.WrapResource("canonicalize", "dataset name", name, errors.ErrInvalidName)
	}
	if strings.Contains(name, "//") {
		return "", errors.WrapResource("canonicalize", "dataset name", name, errors.ErrInvalidName)
	}
	return name, nil
}

// AccessPoint binds a canonical dataset name to its service.
type AccessPoint struct {
	name    string
	service *Service
}

// NewAccessPoint creates an access point, canonicalizing the name.
func NewAccessPoint(name string, service *Service) (*AccessPoint, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return &AccessPoint{name: canonical, service: service}, nil
}

// Name returns the canonical dataset name.
func (ap *AccessPoint) Name() string { return ap.name }

// Service returns the data service mounted at this access point.
func (ap *AccessPoint) Service() *Service { return ap.service }
