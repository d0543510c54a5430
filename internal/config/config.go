// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers an optional YAML file and environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the event store: memory or sqlite.
	StoreBackend string `koanf:"store_backend"`

	// SQLitePath locates the database file when StoreBackend is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// DepositDir is where team submission files are stored.
	DepositDir string `koanf:"deposit_dir"`

	// DepositBaseURL prefixes stored submission links.
	DepositBaseURL string `koanf:"deposit_base_url"`

	// NotifyQueueSize bounds the judge notification queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of notification workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		StoreBackend:      "memory",
		SQLitePath:        "hackboard.db",
		DepositDir:        "deposits",
		DepositBaseURL:    "/files",
		NotifyQueueSize:   1024,
		NotifyWorkerCount: 2,
	}
}
