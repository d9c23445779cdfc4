package serializer_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/dialect"
	"github.com/syssam/coredata/internal/testgraph"
	"github.com/syssam/coredata/serializer"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *serializer.Config
		wantErr bool
		config  bool
	}{
		{
			name: "full",
			data: "ignore_root: true\nignored_types: [Worker, Session]\ndialect: conventional\n",
			want: &serializer.Config{IgnoreRoot: true, IgnoredTypes: []string{"Worker", "Session"}, Dialect: "conventional"},
		},
		{
			name: "empty",
			data: "",
			want: &serializer.Config{},
		},
		{
			name:    "unknown dialect",
			data:    "dialect: oracle\n",
			wantErr: true,
			config:  true,
		},
		{
			name:    "empty type name",
			data:    "ignored_types: ['']\n",
			wantErr: true,
			config:  true,
		},
		{
			name:    "unknown key",
			data:    "ignore_roots: true\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			data:    "ignore_root: [",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := serializer.ParseConfig([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.config, coredata.IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coredata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ignore_root: true\n"), 0o644))

	cfg, err := serializer.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.IgnoreRoot)

	_, err = serializer.LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWithConfig(t *testing.T) {
	t.Run("ignored names", func(t *testing.T) {
		cfg, err := serializer.ParseConfig([]byte("ignored_types: [Worker]\n"))
		require.NoError(t, err)
		s := newSerializer(t, testgraph.Simple(), serializer.WithConfig(cfg))
		assert.Len(t, s.Nodes(), 1)
		assert.Equal(t, []string{"Worker"}, s.IgnoredNames)
	})

	t.Run("root and dialect", func(t *testing.T) {
		cfg := &serializer.Config{IgnoreRoot: true, Dialect: "conventional"}
		s := newSerializer(t, testgraph.Simple(), serializer.WithConfig(cfg))
		assert.Len(t, s.Nodes(), 3)
		assert.Equal(t, dialect.Conventional, s.Dialect())

		script, err := s.SQL()
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(script, `INSERT INTO "workers"`))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := serializer.New(testgraph.Simple(), serializer.WithConfig(nil))
		assert.True(t, coredata.IsConfigError(err))
		_, err = serializer.New(testgraph.Simple(), serializer.WithConfig(&serializer.Config{Dialect: "oracle"}))
		assert.True(t, coredata.IsConfigError(err))
	})
}
