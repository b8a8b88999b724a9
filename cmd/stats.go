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
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Long: `Show row counts and validation progress.

Examples:
  rxndb stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStats()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return statsCmd
}

func runStats() error {
	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	st, err := iostore.New(op).Stats(ctx)
	if err != nil {
		return err
	}

	gn.Info(`Database statistics:

  Reactions:    <em>%s</em>
  Measurements: <em>%s</em>
  References:   <em>%s</em>
  Validated:    <em>%s</em>
  Skipped:      <em>%s</em>`,
		humanize.Comma(int64(st.Reactions)),
		humanize.Comma(int64(st.Measurements)),
		humanize.Comma(int64(st.References)),
		humanize.Comma(int64(st.Validated)),
		humanize.Comma(int64(st.Skipped)),
	)

	for _, tableNo := range slices.Sorted(maps.Keys(st.ByTable)) {
		fmt.Printf("  table %d: %s reactions\n",
			tableNo, humanize.Comma(int64(st.ByTable[tableNo])))
	}

	return nil
}
