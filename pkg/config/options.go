package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabasePath sets the location of the live database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseBusyTimeout sets the SQLite busy timeout in milliseconds.
func OptDatabaseBusyTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Busy Timeout", i) {
			c.Database.BusyTimeout = i
		}
	}
}

// OptDatabaseBatchSize sets the number of source rows committed per
// transaction in bulk operations (import, rebuild).
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptImportDelimiter sets the field separator of source files.
// Valid values: "tab", "comma".
func OptImportDelimiter(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Import.Delimiter", s) {
			c.Import.Delimiter = s
		}
	}
}

// OptImportTableNos sets the list of source table numbers to import.
// Empty slice means import all documents from sources.yaml.
// Runtime-only field - not in ToOptions().
func OptImportTableNos(ii []int) Option {
	return func(c *Config) {
		if len(ii) > 0 {
			c.Import.TableNos = ii
		}
	}
}

// OptImportSourcePath sets a single source file to import instead of
// the registered documents. Runtime-only field - not in ToOptions().
func OptImportSourcePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Source Path", s) {
			c.Import.SourcePath = s
		}
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogLevel sets the logging level.
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogDestination sets where logs are written.
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, data and logs.
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
