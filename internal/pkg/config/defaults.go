package config

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost             = "0.0.0.0"
	DefaultServerPort             = 8080
	DefaultReadTimeoutSeconds     = 10
	DefaultWriteTimeoutSeconds    = 10
	DefaultIdleTimeoutSeconds     = 60
	DefaultShutdownTimeoutSeconds = 15
	DefaultMaxUploadSizeMB        = 10

	// Processing defaults
	DefaultTaskTimeoutSeconds     = 600
	DefaultTaskTTLHours           = 24
	DefaultCacheTTLMinutes        = 60
	DefaultCleanupIntervalMinutes = 60

	// Logging defaults
	DefaultLogLevel = "info"
)
