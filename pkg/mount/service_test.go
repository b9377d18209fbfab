package mount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

func TestServiceEndpoints(t *testing.T) {
	svc := mount.NewService(rdf.NewMemory())

	require.NoError(t, svc.AddEndpoint("query", mount.Query))

	t.Run("duplicate name fails", func(t *testing.T) {
		err := svc.AddEndpoint("query", mount.Update)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)

		var ce *errors.ConfigError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("same operation may back several names", func(t *testing.T) {
		require.NoError(t, svc.AddEndpoint("sparql", mount.Query))
		ep, ok := svc.Endpoint("sparql")
		require.True(t, ok)
		assert.Equal(t, mount.Query, ep.Operation)
	})

	t.Run("disable keeps the endpoint present", func(t *testing.T) {
		require.NoError(t, svc.Disable("query"))
		ep, ok := svc.Endpoint("query")
		require.True(t, ok, "disabled endpoint must still exist")
		assert.False(t, ep.Enabled())

		require.NoError(t, svc.Enable("query"))
		assert.True(t, ep.Enabled())
	})

	t.Run("toggling an unknown endpoint fails", func(t *testing.T) {
		err := svc.Disable("nope")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func TestServiceLifecycle(t *testing.T) {
	dsg := rdf.NewMemory()
	svc := mount.NewService(dsg)

	assert.Equal(t, mount.Created, svc.State())

	require.NoError(t, svc.GoActive())
	assert.Equal(t, mount.Active, svc.State())

	// Idempotent on an active service.
	require.NoError(t, svc.GoActive())
	assert.Equal(t, mount.Active, svc.State())

	require.NoError(t, svc.Close())
	assert.Equal(t, mount.Closed, svc.State())

	// Close released the dataset.
	assert.Error(t, dsg.Begin(rdf.TxnRead))

	// Close is idempotent; GoActive after Close is not allowed.
	require.NoError(t, svc.Close())
	err := svc.GoActive()
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestServiceDefaultOperation(t *testing.T) {
	svc := mount.NewService(rdf.NewMemory())
	assert.Equal(t, mount.Query, svc.DefaultOperation())

	svc.SetDefaultOperation(mount.GraphStoreRead)
	assert.Equal(t, mount.GraphStoreRead, svc.DefaultOperation())
}

func TestStdService(t *testing.T) {
	t.Run("with updates", func(t *testing.T) {
		svc := mount.StdService(rdf.NewMemory(), true)
		for _, name := range []string{"query", "sparql", "get", "update", "data"} {
			_, ok := svc.Endpoint(name)
			assert.True(t, ok, "expected endpoint %q", name)
		}
	})

	t.Run("read-only mount", func(t *testing.T) {
		svc := mount.StdService(rdf.NewMemory(), false)
		_, ok := svc.Endpoint("update")
		assert.False(t, ok)

		// The dataset handlers see is provably read-only.
		err := svc.Dataset().DefaultGraph().Add(rdf.Triple{Subject: "s"})
		assert.ErrorIs(t, err, errors.ErrReadOnly)
	})
}
