package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "rxndb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/rxndb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for the live database file.
// Returns ~/.local/share/rxndb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/rxndb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/rxndb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SourcesFilePath returns the full path to the sources.yaml file.
// Returns ~/.config/rxndb/sources.yaml by default.
func SourcesFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "sources.yaml")
}

// DatabaseFilePath returns the default location of the live database.
func DatabaseFilePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "reactions.db")
}

// DatabasePath resolves the live database location from the config,
// falling back to the default path under HomeDir.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return DatabaseFilePath(c.HomeDir)
}
