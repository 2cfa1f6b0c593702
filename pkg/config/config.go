// Package config loads and validates Archeo configuration from file,
// environment variables, and defaults.
package config

import "errors"

// Config is the top-level configuration struct for archeo.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds the HTTP analysis server settings.
type ServerConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	ReadTimeoutSec   int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec  int    `mapstructure:"write_timeout_sec"`
	MaxUploadSizeMB  int    `mapstructure:"max_upload_size_mb"`
	UploadDir        string `mapstructure:"upload_dir"`
	ResultsDir       string `mapstructure:"results_dir"`
	ShutdownGraceSec int    `mapstructure:"shutdown_grace_sec"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	Environment  string  `mapstructure:"environment"`
}

// maxPort is the highest valid TCP port.
const maxPort = 65535

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPort indicates the server port is out of range.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrInvalidTimeout indicates a server timeout is not positive.
	ErrInvalidTimeout = errors.New("server timeouts must be positive")
	// ErrInvalidUploadSize indicates the upload size limit is not positive.
	ErrInvalidUploadSize = errors.New("server.max_upload_size_mb must be positive")
	// ErrInvalidLogLevel indicates an unknown logging level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of: debug, info, warn, error")
	// ErrInvalidSampleRatio indicates the trace sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return ErrInvalidPort
	}

	if c.Server.ReadTimeoutSec <= 0 || c.Server.WriteTimeoutSec <= 0 {
		return ErrInvalidTimeout
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return ErrInvalidUploadSize
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}
