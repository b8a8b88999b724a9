// Package config provides configuration management for rxndb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: path, busy_timeout, batch_size
//   - Import: delimiter
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.TableNos, Import.SourcePath (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use RXNDB_ prefix with underscores for nesting:
//
//	RXNDB_DATABASE_PATH=/data/reactions.db
//	RXNDB_DATABASE_BATCH_SIZE=500
//	RXNDB_LOG_LEVEL=info
//	RXNDB_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete rxndb configuration.
type Config struct {
	// Database contains settings for the embedded SQLite store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings specific to the import command.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// read-only operations (rebuild integrity checks).
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains parameters of the embedded SQLite database.
type DatabaseConfig struct {
	// Path is the location of the live database file. When empty, the
	// database lives at DatabaseFilePath(HomeDir).
	Path string `mapstructure:"path" yaml:"path"`

	// BusyTimeout is the SQLite busy timeout in milliseconds. It bounds
	// how long a writer waits for the write lock before failing.
	BusyTimeout int `mapstructure:"busy_timeout" yaml:"busy_timeout"`

	// BatchSize defines the number of source rows committed per
	// transaction during imports and rebuilds. Each reaction's own
	// multi-row write stays atomic regardless of this setting; BatchSize
	// only bounds how much work one late failure can invalidate.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ImportConfig contains settings specific to the import command.
type ImportConfig struct {
	// Delimiter is the field separator of source files: "tab" or "comma".
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// TableNos is the list of source table numbers to import.
	// Empty slice means import every document from sources.yaml.
	// Runtime-only, set via CLI flags.
	TableNos []int `mapstructure:"table_nos" yaml:"table_nos"`

	// SourcePath imports a single delimited file instead of the
	// documents registered in sources.yaml. Runtime-only.
	SourcePath string
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			BusyTimeout: 5000,
			BatchSize:   500,
		},
		Import: ImportConfig{
			Delimiter: "tab",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
