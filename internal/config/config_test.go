package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmount/graphmount/internal/config"
	"github.com/graphmount/graphmount/pkg/errors"
)

const validFile = `
server:
  host: localhost
  port: 3330
  ping: true
  stats: true
datasets:
  - name: /ds
    default-operation: query
    endpoints:
      - name: query
        operation: query
      - name: update
        operation: update
        disabled: true
  - name: /archive
    read-only: true
    endpoints:
      - name: query
        operation: query
`

func TestParseValid(t *testing.T) {
	f, err := config.Parse([]byte(validFile))
	require.NoError(t, err)

	assert.Equal(t, 3330, f.Server.Port)
	assert.True(t, f.Server.Ping)
	require.Len(t, f.Datasets, 2)

	ds := f.Datasets[0]
	assert.Equal(t, "/ds", ds.Name)
	assert.False(t, ds.ReadOnly)
	require.Len(t, ds.Endpoints, 2)
	assert.True(t, ds.Endpoints[1].Disabled)

	assert.True(t, f.Datasets[1].ReadOnly)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "unknown operation",
			yaml: "datasets:\n  - name: /ds\n    endpoints:\n      - name: q\n        operation: nonsense\n",
			want: errors.ErrNotFound,
		},
		{
			name: "duplicate dataset name across spellings",
			yaml: "datasets:\n  - name: /ds\n  - name: ds/\n",
			want: errors.ErrAlreadyExists,
		},
		{
			name: "duplicate endpoint name",
			yaml: "datasets:\n  - name: /ds\n    endpoints:\n      - name: q\n        operation: query\n      - name: q\n        operation: update\n",
			want: errors.ErrAlreadyExists,
		},
		{
			name: "bad dataset name",
			yaml: "datasets:\n  - name: /a//b\n",
			want: errors.ErrInvalidName,
		},
		{
			name: "unknown default operation",
			yaml: "datasets:\n  - name: /ds\n    default-operation: nonsense\n",
			want: errors.ErrNotFound,
		},
		{
			name: "not yaml",
			yaml: "{{{",
			want: nil, // any error
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.yaml))
			require.Error(t, err)

			var ce *errors.ConfigError
			assert.ErrorAs(t, err, &ce, "all failures are configuration errors")
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
