// Package graphmount is the public facade of the graphmount dataset
// server: a dispatch core that mounts multi-graph datasets under
// canonical names and routes each request to the handler registered for
// the resolved operation. Query and update execution are pluggable
// handlers; the core owns name resolution, endpoint state, handler
// bindings and read-only mounting.
//
// Example:
//
//	dsg := rdf.NewMemory()
//	srv, err := graphmount.New(
//	    graphmount.WithPort(1234),
//	    graphmount.WithOperationCatalog(catalog),
//	    graphmount.WithDataset("/ds", dsg, true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Start()
//
// The returned server holds frozen private copies of the operation
// catalog and the access-point registry: configuring further after New
// never affects a server already built.
package graphmount

import (
	"fmt"

	"github.com/graphmount/graphmount/internal/config"
	"github.com/graphmount/graphmount/internal/server"
	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

// Server is the frozen serving snapshot produced by New.
type Server = server.Server

// New builds a server from the given options. Options are applied to a
// plain configuration value first; the build step then validates the
// whole configuration and freezes it, returning a structured
// configuration error instead of a partially built server on any
// failure.
func New(opts ...Option) (*Server, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if cfg.configFile != "" {
		file, err := config.Load(cfg.configFile)
		if err != nil {
			return nil, err
		}
		applyFile(cfg, file)
	}

	catalog := cfg.catalog
	if catalog == nil {
		catalog = mount.NewCatalog()
	}

	registry := mount.NewRegistry()
	for _, spec := range cfg.datasets {
		svc, err := spec.service()
		if err != nil {
			return nil, err
		}
		ap, err := mount.NewAccessPoint(spec.name, svc)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(ap); err != nil {
			return nil, err
		}
	}

	for _, spec := range cfg.endpoints {
		if !catalog.IsRegistered(spec.op) {
			return nil, errors.NewConfigError("add endpoint", spec.endpoint,
				fmt.Errorf("operation %q: %w", spec.op.ID(), errors.ErrNotFound))
		}
		ap, ok := registry.Get(spec.dataset)
		if !ok {
			return nil, errors.NewConfigError("add endpoint", spec.endpoint,
				fmt.Errorf("dataset %q: %w", spec.dataset, errors.ErrNotFound))
		}
		if err := ap.Service().AddEndpoint(spec.endpoint, spec.op); err != nil {
			return nil, err
		}
	}

	return server.New(catalog, registry, cfg.server, cfg.logger)
}

// Make builds a server for one dataset with the standard endpoint
// layout, responding on localhost only. It is a packaging of New for the
// simple case; use the options for anything more.
func Make(port int, name string, dsg rdf.DatasetGraph, catalog *mount.Catalog) (*Server, error) {
	return New(
		WithPort(port),
		WithLoopback(true),
		WithOperationCatalog(catalog),
		WithDataset(name, dsg, true),
	)
}

// applyFile folds a validated description file into the configuration.
// Explicit options win over the file for server settings that were set.
func applyFile(cfg *facadeConfig, file *config.File) {
	if file.Server.Host != "" && cfg.server.Host == "" {
		cfg.server.Host = file.Server.Host
	}
	if file.Server.Port != 0 && !cfg.portSet {
		cfg.server.Port = file.Server.Port
	}
	if file.Server.Loopback {
		cfg.server.Loopback = true
	}
	if file.Server.Ping {
		cfg.server.EnablePing = true
	}
	if file.Server.Stats {
		cfg.server.EnableStats = true
	}

	for _, ds := range file.Datasets {
		cfg.datasets = append(cfg.datasets, datasetSpec{
			name:     ds.Name,
			fileSpec: &ds,
		})
	}
}

// datasetSpec is one pending dataset mount.
type datasetSpec struct {
	name string

	// Exactly one of the following is set.
	svc      *mount.Service        // WithService
	std      rdf.DatasetGraph      // WithDataset / WithReadOnlyDataset
	allowUpd bool                  // valid with std
	fileSpec *config.DatasetConfig // from a description file
}

// service materializes the mount.
func (d datasetSpec) service() (*mount.Service, error) {
	switch {
	case d.svc != nil:
		return d.svc, nil
	case d.std != nil:
		return mount.StdService(d.std, d.allowUpd), nil
	default:
		return fileService(d.fileSpec)
	}
}

// fileService builds a service from a description-file entry. Datasets
// declared in a file are backed by in-memory stores; attach a real store
// with WithService instead.
func fileService(ds *config.DatasetConfig) (*mount.Service, error) {
	var svc *mount.Service
	if ds.ReadOnly {
		svc = mount.NewReadOnlyService(rdf.NewMemory())
	} else {
		svc = mount.NewService(rdf.NewMemory())
	}

	if ds.DefaultOperation != "" {
		// Validated by config.Load already.
		if op, ok := mount.OperationForID(ds.DefaultOperation); ok {
			svc.SetDefaultOperation(op)
		}
	}

	for _, ep := range ds.Endpoints {
		op, ok := mount.OperationForID(ep.Operation)
		if !ok {
			return nil, errors.NewConfigError("add endpoint", ep.Name,
				fmt.Errorf("operation %q: %w", ep.Operation, errors.ErrNotFound))
		}
		if err := svc.AddEndpoint(ep.Name, op); err != nil {
			return nil, err
		}
		if ep.Disabled {
			if err := svc.Disable(ep.Name); err != nil {
				return nil, err
			}
		}
	}
	return svc, nil
}
