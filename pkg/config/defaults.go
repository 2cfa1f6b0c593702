package config

// Default configuration values.
const (
	// DefaultServerHost is the default HTTP bind address.
	DefaultServerHost = "0.0.0.0"
	// DefaultServerPort is the default HTTP port.
	DefaultServerPort = 8080
	// DefaultReadTimeoutSec is the default HTTP read timeout in seconds.
	DefaultReadTimeoutSec = 60
	// DefaultWriteTimeoutSec is the default HTTP write timeout in seconds.
	DefaultWriteTimeoutSec = 60
	// DefaultMaxUploadSizeMB is the default upload size cap in megabytes.
	DefaultMaxUploadSizeMB = 100
	// DefaultUploadDir is where uploaded archives are extracted.
	DefaultUploadDir = "uploads"
	// DefaultResultsDir is where finished reports are persisted.
	DefaultResultsDir = "results"
	// DefaultShutdownGraceSec is the default graceful shutdown window in seconds.
	DefaultShutdownGraceSec = 10

	// DefaultLogLevel is the default minimum log severity.
	DefaultLogLevel = "info"
	// DefaultLogJSON controls whether logs default to JSON format.
	DefaultLogJSON = false

	// DefaultSampleRatio is the default trace sampling ratio; zero defers
	// to the SDK default of parent-based always-on.
	DefaultSampleRatio = 0.0
)
