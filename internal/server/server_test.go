package server_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmount/graphmount/internal/server"
	"github.com/graphmount/graphmount/pkg/logging"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

func okHandler(body string) mount.Handler {
	return mount.HandlerFunc(func(a *mount.Action) {
		a.W.WriteHeader(200)
		_, _ = a.W.Write([]byte(body))
	})
}

func buildFixture(t *testing.T, cfg server.Config) (*server.Server, *mount.Service) {
	t.Helper()

	catalog := mount.NewCatalog()
	catalog.Register(mount.Query, "", okHandler("query-result"))
	catalog.Register(mount.Update, "", okHandler("update-result"))

	svc := mount.NewService(rdf.NewMemory())
	require.NoError(t, svc.AddEndpoint("query", mount.Query))
	require.NoError(t, svc.AddEndpoint("update", mount.Update))

	registry := mount.NewRegistry()
	ap, err := mount.NewAccessPoint("/ds", svc)
	require.NoError(t, err)
	require.NoError(t, registry.Register(ap))

	tl := logging.NewTestLogger(t)
	srv, err := server.New(catalog, registry, cfg, tl.Logger)
	require.NoError(t, err)
	return srv, svc
}

func TestServerEndToEnd(t *testing.T) {
	srv, svc := buildFixture(t, server.DefaultConfig())
	h := srv.Handler()

	t.Run("query endpoint resolves", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/ds/query", nil))
		assert.Equal(t, 200, rec.Code)
		assert.Equal(t, "query-result", rec.Body.String())
	})

	t.Run("disabled endpoint yields 403", func(t *testing.T) {
		// The frozen registry shares service objects, so administrative
		// toggling is visible to the running server.
		require.NoError(t, svc.Disable("update"))
		defer func() { require.NoError(t, svc.Enable("update")) }()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/ds/update", nil))
		assert.Equal(t, 403, rec.Code)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ENDPOINT_DISABLED", body.Error.Code)
	})

	t.Run("unknown dataset yields 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/other", nil))
		assert.Equal(t, 404, rec.Code)
	})
}

func TestServerFreezeIsolation(t *testing.T) {
	catalog := mount.NewCatalog()
	catalog.Register(mount.Query, "", okHandler("ok"))

	svc := mount.NewService(rdf.NewMemory())
	require.NoError(t, svc.AddEndpoint("query", mount.Query))

	registry := mount.NewRegistry()
	ap, err := mount.NewAccessPoint("/ds", svc)
	require.NoError(t, err)
	require.NoError(t, registry.Register(ap))

	tl := logging.NewTestLogger(t)
	srv, err := server.New(catalog, registry, server.DefaultConfig(), tl.Logger)
	require.NoError(t, err)

	// Post-build mutation of the builder's structures must not leak into
	// the running server.
	registry.Unregister("/ds")
	catalog.Unregister(mount.Query)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/ds/query", nil))
	assert.Equal(t, 200, rec.Code)
}

func TestServerActivatesServices(t *testing.T) {
	srv, svc := buildFixture(t, server.DefaultConfig())
	assert.Equal(t, mount.Active, svc.State())

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, mount.Closed, svc.State())
}

func TestServerRejectsClosedService(t *testing.T) {
	catalog := mount.NewCatalog()
	catalog.Register(mount.Query, "", okHandler("ok"))

	svc := mount.NewService(rdf.NewMemory())
	require.NoError(t, svc.Close())

	registry := mount.NewRegistry()
	ap, err := mount.NewAccessPoint("/ds", svc)
	require.NoError(t, err)
	require.NoError(t, registry.Register(ap))

	tl := logging.NewTestLogger(t)
	_, err = server.New(catalog, registry, server.DefaultConfig(), tl.Logger)
	require.Error(t, err)
}

func TestServerBuiltinEndpoints(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.EnablePing = true
	cfg.EnableStats = true
	srv, _ := buildFixture(t, cfg)
	h := srv.Handler()

	t.Run("ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/$/ping", nil))
		assert.Equal(t, 200, rec.Code)
		assert.NotEmpty(t, rec.Body.String())
	})

	t.Run("stats reflect dispatch counters", func(t *testing.T) {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/ds/query", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/$/stats", nil))
		require.Equal(t, 200, rec.Code)

		var body struct {
			Data struct {
				Datasets map[string]map[string]int64 `json:"datasets"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.GreaterOrEqual(t, body.Data.Datasets["/ds"]["query"], int64(1))
	})

	t.Run("disabled by default", func(t *testing.T) {
		srvDefault, _ := buildFixture(t, server.DefaultConfig())
		rec := httptest.NewRecorder()
		// With ping disabled the path falls through to dispatch and the
		// "$" segment is not a dataset.
		srvDefault.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/$/ping", nil))
		assert.Equal(t, 404, rec.Code)
	})
}
