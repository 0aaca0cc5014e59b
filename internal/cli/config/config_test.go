package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "orrery.json", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("store:\n  driver: sqlite\n  path: solar.db\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orrery.yml"), content, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "solar.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file with path", Config{Store: StoreConfig{Driver: "file", Path: "x.json"}}, false},
		{"sqlite without path", Config{Store: StoreConfig{Driver: "sqlite"}}, true},
		{"postgres without url", Config{Store: StoreConfig{Driver: "postgres"}}, true},
		{"postgres with url", Config{Store: StoreConfig{Driver: "postgres", URL: "postgres://x"}}, false},
		{"unknown driver", Config{Store: StoreConfig{Driver: "redis"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
