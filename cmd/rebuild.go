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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iorebuild"
	"github.com/spf13/cobra"
)

// getRebuildCmd returns the rebuild command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRebuildCmd() *cobra.Command {
	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the database from validated records",
		Long: `Rebuild the live database from its validated records.

This command:
  1. Builds a fresh database file next to the live one, containing
     only validated, non-skipped reactions
  2. Runs integrity checks on the fresh file (index coverage,
     referential integrity, duplicate numbering)
  3. Optimizes it (ANALYZE, VACUUM)
  4. Atomically swaps it in place of the live file

The live database is never modified in place. Any failure before
the swap leaves it untouched and still serving queries.

Examples:
  rxndb rebuild`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRebuild()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return rebuildCmd
}

func runRebuild() error {
	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Starting rebuild from validated records...")
	report, err := iorebuild.New(cfg, op).Rebuild(ctx)
	if err != nil {
		return err
	}

	gn.Info(`Rebuild complete!

  Reactions:    <em>%s</em>
  Measurements: <em>%s</em>
  References:   <em>%s</em>
  Checks:       <em>%d</em> passed`,
		humanize.Comma(int64(report.Reactions)),
		humanize.Comma(int64(report.Measurements)),
		humanize.Comma(int64(report.References)),
		report.ChecksPassed,
	)

	return nil
}
