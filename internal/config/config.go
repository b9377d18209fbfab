// Package config loads and validates graphmount server description
// files. A description file declares the listen address, the built-in
// endpoints, and the datasets to mount with their endpoints; validation
// happens in full before any server is built, so a bad file can never
// produce a half-configured server.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/mount"
)

// File is the root of a server description file.
type File struct {
	Server   ServerConfig    `yaml:"server"`
	Datasets []DatasetConfig `yaml:"datasets"`
}

// ServerConfig holds the listener and built-in endpoint settings.
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Loopback bool   `yaml:"loopback"`
	Ping     bool   `yaml:"ping"`
	Stats    bool   `yaml:"stats"`
}

// DatasetConfig declares one dataset mount.
type DatasetConfig struct {
	Name             string           `yaml:"name"`
	ReadOnly         bool             `yaml:"read-only"`
	DefaultOperation string           `yaml:"default-operation"`
	Endpoints        []EndpointConfig `yaml:"endpoints"`
}

// EndpointConfig declares one endpoint within a dataset.
type EndpointConfig struct {
	Name      string `yaml:"name"`
	Operation string `yaml:"operation"`
	Disabled  bool   `yaml:"disabled"`
}

// Load reads and parses a description file. The file is validated; a
// validation failure is a configuration error and no partial result is
// returned.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("read config file", path, err)
	}
	return Parse(data)
}

// Parse parses and validates a description file from bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewConfigError("parse config file", "", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the whole file: canonicalizable unique dataset names,
// known operation ids, unique endpoint names per dataset.
func (f *File) Validate() error {
	if f.Server.Port < 0 {
		return errors.NewConfigError("validate server", "port", errors.ErrInvalidName)
	}

	seen := make(map[string]struct{}, len(f.Datasets))
	for _, ds := range f.Datasets {
		canonical, err := mount.Canonical(ds.Name)
		if err != nil {
			return errors.NewConfigError("validate dataset", ds.Name, err)
		}
		if _, dup := seen[canonical]; dup {
			return errors.NewConfigError("validate dataset", canonical, errors.ErrAlreadyExists)
		}
		seen[canonical] = struct{}{}

		if ds.DefaultOperation != "" {
			if _, ok := mount.OperationForID(ds.DefaultOperation); !ok {
				return errors.NewConfigError("validate default operation", ds.DefaultOperation, errors.ErrNotFound)
			}
		}

		epSeen := make(map[string]struct{}, len(ds.Endpoints))
		for _, ep := range ds.Endpoints {
			if ep.Name == "" {
				return errors.NewConfigError("validate endpoint", ds.Name, errors.ErrInvalidName)
			}
			if _, dup := epSeen[ep.Name]; dup {
				return errors.NewConfigError("validate endpoint", ep.Name, errors.ErrAlreadyExists)
			}
			epSeen[ep.Name] = struct{}{}

			if _, ok := mount.OperationForID(ep.Operation); !ok {
				return errors.NewConfigError("validate operation", ep.Operation, errors.ErrNotFound)
			}
		}
	}
	return nil
}
