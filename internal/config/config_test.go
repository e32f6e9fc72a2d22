package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 256, cfg.CanvasSize)
	assert.EqualValues(t, 200, cfg.MaskThreshold)
	assert.Equal(t, 0.25, cfg.IconFraction)
	assert.Equal(t, 3*time.Second, cfg.BlobRevoke.Duration)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: 9000\nmask_threshold: 180\nblob_revoke: 10s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.EqualValues(t, 180, cfg.MaskThreshold)
	assert.Equal(t, 10*time.Second, cfg.BlobRevoke.Duration)
	// Untouched keys keep defaults.
	assert.Equal(t, 256, cfg.CanvasSize)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QRGEN_PORT", "7777")
	t.Setenv("QRGEN_MASK_THRESHOLD", "150")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Port)
	assert.EqualValues(t, 150, cfg.MaskThreshold)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas_size: 4\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
