package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codearcheology/archeo/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// Explicit path that does not exist is an error; empty path falls back
	// to search and then defaults.
	require.Error(t, err)

	cfg, err = config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultMaxUploadSizeMB, cfg.Server.MaxUploadSizeMB)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archeo.yaml")
	content := `
server:
  port: 9090
  upload_dir: /tmp/archeo-uploads
logging:
  level: debug
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/archeo-uploads", cfg.Server.UploadDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)

	// Unset keys keep their defaults.
	assert.Equal(t, config.DefaultReadTimeoutSec, cfg.Server.ReadTimeoutSec)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ARCHEO_SERVER_PORT", "7070")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		return &config.Config{
			Server: config.ServerConfig{
				Port:            config.DefaultServerPort,
				ReadTimeoutSec:  config.DefaultReadTimeoutSec,
				WriteTimeoutSec: config.DefaultWriteTimeoutSec,
				MaxUploadSizeMB: config.DefaultMaxUploadSizeMB,
			},
			Logging: config.LoggingConfig{Level: "info"},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Server.Port = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidPort)

	cfg = valid()
	cfg.Server.ReadTimeoutSec = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidTimeout)

	cfg = valid()
	cfg.Server.MaxUploadSizeMB = -1
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidUploadSize)

	cfg = valid()
	cfg.Logging.Level = "verbose"
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidLogLevel)

	cfg = valid()
	cfg.Telemetry.SampleRatio = 1.5
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidSampleRatio)
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: -1\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidPort)
}
