package mount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmount/graphmount/pkg/errors"
	"github.com/graphmount/graphmount/pkg/mount"
	"github.com/graphmount/graphmount/pkg/rdf"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare name", "ds", "/ds", false},
		{"leading slash", "/ds", "/ds", false},
		{"trailing slash", "/ds/", "/ds", false},
		{"both", "ds/", "/ds", false},
		{"nested", "/a/b", "/a/b", false},
		{"many trailing slashes", "/ds///", "/ds", false},
		{"empty", "", "", true},
		{"root only", "/", "", true},
		{"internal double slash", "/a//b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mount.Canonical(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Canonical(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonical(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}

			// Idempotence.
			again, err := mount.Canonical(got)
			if err != nil || again != got {
				t.Errorf("Canonical not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCanonicalCollapsesSpellings(t *testing.T) {
	a, err := mount.Canonical("ds")
	require.NoError(t, err)
	b, err := mount.Canonical("/ds")
	require.NoError(t, err)
	c, err := mount.Canonical("/ds/")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestRegistryRegister(t *testing.T) {
	r := mount.NewRegistry()
	ap, err := mount.NewAccessPoint("/ds", mount.NewService(rdf.NewMemory()))
	require.NoError(t, err)
	require.NoError(t, r.Register(ap))

	t.Run("duplicate canonical name fails fast", func(t *testing.T) {
		dup, err := mount.NewAccessPoint("ds/", mount.NewService(rdf.NewMemory()))
		require.NoError(t, err)

		err = r.Register(dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)

		// Registry unchanged after the failed attempt.
		assert.Equal(t, 1, r.Len())
		got, ok := r.Get("/ds")
		require.True(t, ok)
		assert.Same(t, ap, got)
	})

	t.Run("lookup canonicalizes", func(t *testing.T) {
		for _, spelling := range []string{"ds", "/ds", "/ds/"} {
			got, ok := r.Get(spelling)
			require.True(t, ok, "spelling %q", spelling)
			assert.Same(t, ap, got)
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r.Unregister("ds/")
		_, ok := r.Get("/ds")
		assert.False(t, ok)
	})
}

func TestRegistryCopyIsolation(t *testing.T) {
	src := mount.NewRegistry()
	ap, err := mount.NewAccessPoint("/ds", mount.NewService(rdf.NewMemory()))
	require.NoError(t, err)
	require.NoError(t, src.Register(ap))

	cp := mount.NewRegistryFrom(src)
	require.True(t, cp.IsRegistered("/ds"))

	// The copy shares access points but not the map.
	got, ok := cp.Get("/ds")
	require.True(t, ok)
	assert.Same(t, ap, got)

	cp.Unregister("/ds")
	assert.True(t, src.IsRegistered("/ds"), "mutating the copy must not affect the source")

	other, err := mount.NewAccessPoint("/other", mount.NewService(rdf.NewMemory()))
	require.NoError(t, err)
	require.NoError(t, src.Register(other))
	assert.False(t, cp.IsRegistered("/other"), "mutating the source must not affect the copy")
}

func TestRegistryNames(t *testing.T) {
	r := mount.NewRegistry()
	for _, name := range []string{"/b", "/a", "/c"} {
		ap, err := mount.NewAccessPoint(name, mount.NewService(rdf.NewMemory()))
		require.NoError(t, err)
		require.NoError(t, r.Register(ap))
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, r.Names())
}
