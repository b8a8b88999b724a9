/*
Copyright © 2025 The rxndb authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iodb"
	"github.com/radreactions/rxndb/internal/iofs"
	"github.com/radreactions/rxndb/internal/iologger"
	app "github.com/radreactions/rxndb/pkg"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfg     *config.Config
)

// getRootCmd builds the root command with all subcommands attached.
// Extracted as a function to facilitate testing and dynamic command
// registration.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", app.Version, app.Build,
		),
		Use:   "rxndb",
		Short: "rxndb manages a database of radiation-chemistry reactions",
		Long: `rxndb manages the lifecycle of a reaction kinetics database.

The database holds reactions transcribed from digitized compilation
tables, their measured rate constants and bibliography, a canonical
formula key for duplicate detection, and a full-text index kept in
sync with the data. Imports are idempotent: re-running an import
after a transcription fix updates records in place.

Typical workflow:
  rxndb create             initialize the schema
  rxndb import             load transcription files from sources.yaml
  rxndb search <query>     full-text search over reactions
  rxndb rebuild            rebuild the database from validated records
  rxndb export             dump validated reactions as JSON`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for rxndb")

	rootCmd.AddCommand(
		getCreateCmd(),
		getImportCmd(),
		getSearchCmd(),
		getRebuildCmd(),
		getExportCmd(),
		getStatsCmd(),
		getValidateCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults.
	// Will be reconfigured later with user's config settings.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureSourcesFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, appending so the
	// bootstrap lines are kept.
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

// connectOperator opens the live database for a subcommand.
func connectOperator(ctx context.Context) (rxndb.Operator, error) {
	dbCfg := cfg.Database
	dbCfg.Path = cfg.DatabasePath()

	op := iodb.New()
	if err := op.Connect(ctx, &dbCfg); err != nil {
		return nil, err
	}

	gn.Info("Using database <em>%s</em>", dbCfg.Path)
	return op, nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables
	// are allowed. These match the fields included in
	// config.ToOptions(), i.e. persistent configuration that can be
	// stored in config.yaml.
	v.SetEnvPrefix("RXNDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.path", "RXNDB_DATABASE_PATH")
	v.BindEnv("database.busy_timeout", "RXNDB_DATABASE_BUSY_TIMEOUT")
	v.BindEnv("database.batch_size", "RXNDB_DATABASE_BATCH_SIZE")

	// Import configuration
	v.BindEnv("import.delimiter", "RXNDB_IMPORT_DELIMITER")

	// Log configuration
	v.BindEnv("log.level", "RXNDB_LOG_LEVEL")
	v.BindEnv("log.format", "RXNDB_LOG_FORMAT")
	v.BindEnv("log.destination", "RXNDB_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "RXNDB_JOBS_NUMBER")

	v.AutomaticEnv()
}
