// Filename: config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "molt", cfg.Logger.ServiceName)
	assert.Equal(t, "Molt.Generated", cfg.Translate.Namespace)
	assert.Positive(t, cfg.Translate.Concurrency)
	assert.False(t, cfg.Translate.Strict)
}

func TestNewConfigFromViper_OverridesDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	v.Set("translate.strict", true)
	v.Set("translate.namespace", "Acme.Ported")
	v.Set("logger.format", "json")

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Translate.Strict)
	assert.Equal(t, "Acme.Ported", cfg.Translate.Namespace)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(v *viper.Viper)
		wantErr string
	}{
		{
			name:    "bad format",
			mutate:  func(v *viper.Viper) { v.Set("logger.format", "xml") },
			wantErr: "logger.format",
		},
		{
			name:    "zero concurrency",
			mutate:  func(v *viper.Viper) { v.Set("translate.concurrency", 0) },
			wantErr: "translate.concurrency",
		},
		{
			name:    "blank namespace",
			mutate:  func(v *viper.Viper) { v.Set("translate.namespace", "  ") },
			wantErr: "translate.namespace",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			SetDefaults(v)
			tc.mutate(v)

			_, err := NewConfigFromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "molt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("translate:\n  strict: true\n"), 0o644))

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, LoadFile(v, path))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Translate.Strict)
}

func TestLoadFile_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	err := LoadFile(v, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFile_NoHomeFileIsFine(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	SetDefaults(v)
	assert.NoError(t, LoadFile(v, ""))
}
