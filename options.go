package graphmount

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/graphmount/graphmount/internal/server"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

// Option is a function that configures a server build.
type Option func(*facadeConfig) error

// facadeConfig collects everything the build step needs. It is a plain
// value; nothing is registered or mounted until New runs the build.
type facadeConfig struct {
	server     server.Config
	portSet    bool
	logger     *zerolog.Logger
	catalog    *mount.Catalog
	datasets   []datasetSpec
	endpoints  []endpointSpec
	configFile string
}

type endpointSpec struct {
	dataset  string
	endpoint string
	op       mount.Operation
}

func defaultConfig() *facadeConfig {
	return &facadeConfig{server: server.DefaultConfig()}
}

// WithPort sets the port to listen on. Port 0 picks a free port.
func WithPort(port int) Option {
	return func(c *facadeConfig) error {
		if port < 0 {
			return fmt.Errorf("illegal port %d: port must be greater than or equal to zero", port)
		}
		c.server.Port = port
		c.portSet = true
		return nil
	}
}

// WithHost sets the interface to listen on.
func WithHost(host string) Option {
	return func(c *facadeConfig) error {
		c.server.Host = host
		return nil
	}
}

// WithLoopback restricts the server to the localhost interface.
func WithLoopback(loopback bool) Option {
	return func(c *facadeConfig) error {
		c.server.Loopback = loopback
		return nil
	}
}

// WithLogger sets the logger for the server and its dispatcher.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *facadeConfig) error {
		c.logger = logger
		return nil
	}
}

// WithPing enables the "/$/ping" liveness endpoint, useful for checking
// whether a server is alive from a load balancer.
func WithPing(enabled bool) Option {
	return func(c *facadeConfig) error {
		c.server.EnablePing = enabled
		return nil
	}
}

// WithStats enables the "/$/stats" endpoint reporting invocation counts
// per dataset and operation.
func WithStats(enabled bool) Option {
	return func(c *facadeConfig) error {
		c.server.EnableStats = enabled
		return nil
	}
}

// WithOperationCatalog supplies the operation catalog. The build takes a
// private isolated copy, so registering more operations afterwards does
// not affect the built server.
func WithOperationCatalog(catalog *mount.Catalog) Option {
	return func(c *facadeConfig) error {
		c.catalog = catalog
		return nil
	}
}

// WithOperation registers one handler binding on the build's catalog,
// creating the catalog if none was supplied. An empty contentType sets
// the default binding for the operation.
func WithOperation(op mount.Operation, contentType string, h mount.Handler) Option {
	return func(c *facadeConfig) error {
		if c.catalog == nil {
			c.catalog = mount.NewCatalog()
		}
		c.catalog.Register(op, contentType, h)
		return nil
	}
}

// WithDataset mounts a dataset with the standard endpoint layout,
// enabling update endpoints if allowUpdate is true. With allowUpdate
// false the dataset is mounted read-only: handlers can only reach it
// through a read-only view.
func WithDataset(name string, dsg rdf.DatasetGraph, allowUpdate bool) Option {
	return func(c *facadeConfig) error {
		c.datasets = append(c.datasets, datasetSpec{name: name, std: dsg, allowUpd: allowUpdate})
		return nil
	}
}

// WithReadOnlyDataset mounts a dataset read-only with the standard read
// endpoint layout.
func WithReadOnlyDataset(name string, dsg rdf.DatasetGraph) Option {
	return WithDataset(name, dsg, false)
}

// WithService mounts a fully configured data service under the name.
// This is the way to choose endpoint names freely or to attach a custom
// store.
func WithService(name string, svc *mount.Service) Option {
	return func(c *facadeConfig) error {
		c.datasets = append(c.datasets, datasetSpec{name: name, svc: svc})
		return nil
	}
}

// WithEndpoint creates an additional endpoint on an already declared
// dataset. The operation must be registered in the catalog and the
// dataset must have been added; either failure is a configuration error
// reported by New.
func WithEndpoint(datasetName, endpointName string, op mount.Operation) Option {
	return func(c *facadeConfig) error {
		c.endpoints = append(c.endpoints, endpointSpec{
			dataset:  datasetName,
			endpoint: endpointName,
			op:       op,
		})
		return nil
	}
}

// WithConfigFile loads a server description file. Datasets and server
// settings from the file are merged with the other options; explicit
// options win for server settings.
func WithConfigFile(path string) Option {
	return func(c *facadeConfig) error {
		c.configFile = path
		return nil
	}
}
