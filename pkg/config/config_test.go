package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/radreactions/rxndb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "rxndb"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "rxndb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "rxndb", "logs"),
		},
		{
			msg: "database file",
			fn:  config.DatabaseFilePath,
			res: filepath.Join(tempHome, ".local", "share", "rxndb", "reactions.db"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		assert.Equal(t, "", cfg.Database.Path)
		assert.Equal(t, 5000, cfg.Database.BusyTimeout)
		assert.Equal(t, 500, cfg.Database.BatchSize)
		assert.Equal(t, "tab", cfg.Import.Delimiter)

		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestUpdate(t *testing.T) {
	cfg := config.New()

	cfg.Update([]config.Option{
		config.OptDatabasePath("/tmp/reactions.db"),
		config.OptDatabaseBatchSize(100),
		config.OptImportDelimiter("comma"),
		config.OptLogLevel("debug"),
		config.OptJobsNumber(4),
	})

	assert.Equal(t, "/tmp/reactions.db", cfg.Database.Path)
	assert.Equal(t, 100, cfg.Database.BatchSize)
	assert.Equal(t, "comma", cfg.Import.Delimiter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.JobsNumber)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	cfg := config.New()

	cfg.Update([]config.Option{
		config.OptDatabasePath(""),
		config.OptDatabaseBatchSize(-5),
		config.OptImportDelimiter("pipe"),
		config.OptLogLevel("verbose"),
	})

	// Invalid options are ignored, config keeps defaults.
	assert.Equal(t, "", cfg.Database.Path)
	assert.Equal(t, 500, cfg.Database.BatchSize)
	assert.Equal(t, "tab", cfg.Import.Delimiter)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestDatabasePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/alice")})

	assert.Equal(
		t,
		filepath.Join("/home/alice", ".local", "share", "rxndb", "reactions.db"),
		cfg.DatabasePath(),
	)

	cfg.Update([]config.Option{config.OptDatabasePath("/data/rx.db")})
	assert.Equal(t, "/data/rx.db", cfg.DatabasePath())
}

func TestToOptionsRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabasePath("/data/rx.db"),
		config.OptDatabaseBatchSize(250),
		config.OptLogFormat("text"),
	})

	cfg2 := config.New()
	cfg2.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Database, cfg2.Database)
	assert.Equal(t, cfg.Import.Delimiter, cfg2.Import.Delimiter)
	assert.Equal(t, cfg.Log, cfg2.Log)
	assert.Equal(t, cfg.JobsNumber, cfg2.JobsNumber)
}
