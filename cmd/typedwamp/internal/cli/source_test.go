package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/typedwamp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typedwamp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [./api]\ncontracts: [A]\nexportModule: true\n"), 0644))

	logger := testLogger()

	tests := []struct {
		name          string
		src           Source
		wantPackages  []string
		wantContracts []string
		wantExport    bool
	}{
		{
			name:         "no config defaults to current package",
			src:          Source{},
			wantPackages: []string{"."},
		},
		{
			name:          "config file",
			src:           Source{ConfigFile: path},
			wantPackages:  []string{"./api"},
			wantContracts: []string{"A"},
			wantExport:    true,
		},
		{
			name:          "flags override config",
			src:           Source{ConfigFile: path, Packages: []string{"./events"}, Contracts: []string{"B", "C"}},
			wantPackages:  []string{"./events"},
			wantContracts: []string{"B", "C"},
			wantExport:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.src.Load(logger)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPackages, cfg.Packages)
			assert.Equal(t, tt.wantContracts, cfg.Contracts)
			assert.Equal(t, tt.wantExport, cfg.ExportModule)
			assert.Same(t, logger, cfg.Logger)
		})
	}
}

func TestSource_LoadReflectionConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typedwamp.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider": "reflection"}`), 0644))

	cfg, err := (&Source{ConfigFile: path}).Load(testLogger())
	require.NoError(t, err)
	assert.Empty(t, cfg.Packages)

	// Reflected interfaces cannot come from a file.
	assert.ErrorContains(t, cfg.Validate(), "Interfaces is required when Provider is "+typedwamp.ProviderReflection)
}

func TestSource_LoadBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typedwamp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus: 1\n"), 0644))

	_, err := (&Source{ConfigFile: path}).Load(testLogger())
	assert.ErrorContains(t, err, "field bogus not found")
}
