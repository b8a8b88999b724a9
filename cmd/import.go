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
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/ioimport"
	"github.com/radreactions/rxndb/internal/iosources"
	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/errcode"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/sources"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getImportCmd() *cobra.Command {
	var (
		tableNos   []int
		sourcePath string
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import transcription files into the database",
		Long: `Import reaction transcription files.

This command:
  1. Reads sources.yaml to discover registered source documents
  2. Loads each document's bibliography when one is registered
  3. Imports reaction rows with their measurements and reference
     links

Imports are idempotent. Re-running an import reports every
unchanged row as unchanged; a transcription fix updates the
existing record in place instead of creating a duplicate. One
malformed row is reported and never aborts its batch.

Source documents are configured in: ~/.config/rxndb/sources.yaml

Examples:
  # Import every registered document
  rxndb import

  # Import specific tables only
  rxndb import --table 6,7
  rxndb import -t 6

  # Import one file as a registered table
  rxndb import -t 6 --source fixed/table6.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, tableNos, sourcePath)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().IntSliceVarP(
		&tableNos, "table", "t", []int{},
		"source table numbers to import (empty = all)",
	)
	importCmd.Flags().StringVarP(
		&sourcePath, "source", "s", "",
		"import a single file (requires exactly one --table)",
	)

	return importCmd
}

func runImport(
	cmd *cobra.Command,
	tableNos []int,
	sourcePath string,
) error {
	ctx := context.Background()

	var importOpts []config.Option
	if cmd.Flags().Changed("table") {
		importOpts = append(importOpts, config.OptImportTableNos(tableNos))
	}
	if cmd.Flags().Changed("source") {
		importOpts = append(importOpts, config.OptImportSourcePath(sourcePath))
	}
	if len(importOpts) > 0 {
		cfg.Update(importOpts)
	}

	if cfg.Import.SourcePath != "" && len(cfg.Import.TableNos) != 1 {
		gn.Warn("<warn>--source requires exactly one --table</warn>")
		err := fmt.Errorf("invalid flag combination")
		slog.Error("invalid flag combination", "error", err)
		return err
	}

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		return &gn.Error{
			Code: errcode.DBNotConnectedError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'rxndb create'</em> first to initialize the schema.`,
			Err: errors.New("cannot import into empty database"),
		}
	}

	store := iostore.New(op)
	importer := ioimport.New(cfg, op, store)

	src, err := iosources.New(cfg).Load()
	if err != nil {
		return err
	}
	for _, w := range src.Warnings {
		gn.Warn("<warn>%s/%s: %s</warn>", w.DocumentID, w.Field, w.Message)
	}

	docs := src.Filter(cfg.Import.TableNos)
	if len(docs) == 0 {
		tableNo := 0
		if len(cfg.Import.TableNos) > 0 {
			tableNo = cfg.Import.TableNos[0]
		}
		return iosources.DocumentError(
			tableNo,
			errors.New("no matching document in sources.yaml"),
		)
	}

	var failed int
	for _, doc := range docs {
		path := doc.Path
		if cfg.Import.SourcePath != "" {
			path = cfg.Import.SourcePath
		}

		if err = importDocument(ctx, store, importer, doc, path); err != nil {
			gn.Warn("<warn>Table %d failed: %v</warn>", doc.TableNo, err)
			slog.Error("Import failed",
				"table", doc.TableNo, "path", path, "error", err)
			failed++
		}
	}

	if failed == len(docs) {
		return ioimport.AllDocumentsFailedError(failed)
	}
	return nil
}

func importDocument(
	ctx context.Context,
	store rxndb.Store,
	importer rxndb.Importer,
	doc sources.Document,
	path string,
) error {
	if doc.ReferencesPath != "" {
		n, err := ioimport.ImportReferences(
			ctx, store, doc, doc.ReferencesPath, '\t',
		)
		if err != nil {
			return err
		}
		gn.Info("Loaded <em>%s</em> references for %s",
			humanize.Comma(int64(n)), doc.ID)
	}

	report, err := importer.ImportFile(ctx, doc, path)
	if err != nil {
		return err
	}

	gn.Info(
		"Table %d: created %s, updated %s, unchanged %s, failed %s",
		report.TableNo,
		humanize.Comma(int64(report.Created)),
		humanize.Comma(int64(report.Updated)),
		humanize.Comma(int64(report.Unchanged)),
		humanize.Comma(int64(report.Failed)),
	)
	if report.RefsUnresolved > 0 {
		gn.Warn("<warn>%s reference codes did not resolve</warn>",
			humanize.Comma(int64(report.RefsUnresolved)))
	}
	for _, f := range report.Failures {
		slog.Warn("Row failed",
			"table", report.TableNo, "line", f.Line, "reason", f.Reason)
	}
	return nil
}
