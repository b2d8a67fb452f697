package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUsesDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Server.URL)
	assert.Equal(t, 100*time.Millisecond, cfg.Refresh.ChartInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.Refresh.View2DInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.Refresh.View3DInterval)
	assert.Equal(t, 500, cfg.Render.MaxChartPoints)
	assert.False(t, cfg.Mirror.Enabled)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BEAM_SERVER_URL", "http://10.1.1.5:5000")
	t.Setenv("BEAM_MIRROR_HOST", "redis.local")
	t.Setenv("BEAM_MIRROR_PORT", "6380")
	t.Setenv("BEAM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://10.1.1.5:5000", cfg.Server.URL)
	assert.Equal(t, "redis.local", cfg.Mirror.Host)
	assert.Equal(t, 6380, cfg.Mirror.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInvalidMirrorPortIsIgnored(t *testing.T) {
	t.Setenv("BEAM_MIRROR_PORT", "não numérico")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6379, cfg.Mirror.Port)
}
