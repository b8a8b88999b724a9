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
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getExportCmd() *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export validated reactions as JSON",
		Long: `Export a point-in-time snapshot of the validated,
non-skipped reactions with their measurements and references.

The snapshot carries a random identifier and a timestamp, so
consumers can tell dumps apart.

Examples:
  rxndb export
  rxndb export --output reactions.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExport(output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringVarP(&output, "output", "o",
		"rxndb-export.json", "output file path")

	return exportCmd
}

func runExport(output string) error {
	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	snap, err := iostore.New(op).SnapshotValidated(ctx)
	if err != nil {
		return err
	}

	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(snap)
	if err != nil {
		return err
	}

	if err = os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	gn.Info("Exported <em>%s</em> reactions to <em>%s</em> (snapshot %s)",
		humanize.Comma(int64(len(snap.Reactions))), output, snap.ID)
	return nil
}
