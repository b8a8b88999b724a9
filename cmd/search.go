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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iosearch"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSearchCmd() *cobra.Command {
	var (
		tableNo       int
		validatedOnly bool
		limit         int
		offset        int
	)

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Full-text search over reactions",
		Long: `Search reactions by name, canonical formula or notes.

Results are ranked by relevance. Skipped reactions never appear.
Chemical notation is safe to paste verbatim: arrows, charges and
parentheses in the query cannot break the search syntax.

An empty query with filters lists matching reactions in creation
order.

Examples:
  rxndb search "hydroxyl"
  rxndb search "OH + H2O2" --table 6
  rxndb search --table 7 --validated
  rxndb search "electron" --limit 10 --offset 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = args[0]
			}
			err := runSearch(rxndb.SearchQuery{
				Text:          text,
				TableNo:       tableNo,
				ValidatedOnly: validatedOnly,
				Limit:         limit,
				Offset:        offset,
			})
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	searchCmd.Flags().IntVarP(&tableNo, "table", "t", 0,
		"restrict to one source table")
	searchCmd.Flags().BoolVarP(&validatedOnly, "validated", "v", false,
		"validated reactions only")
	searchCmd.Flags().IntVarP(&limit, "limit", "l", 0,
		"page size (default 50)")
	searchCmd.Flags().IntVarP(&offset, "offset", "o", 0,
		"number of results to skip")

	return searchCmd
}

func runSearch(q rxndb.SearchQuery) error {
	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	res, err := iosearch.New(op).Search(ctx, q)
	if err != nil {
		return err
	}

	for _, h := range res.Hits {
		status := " "
		if h.Validated {
			status = "v"
		}
		fmt.Printf("%6d [%s] t%d/%s  %s\n", h.ReactionID, status,
			h.TableNo, h.DocReactionNo, h.FormulaCanonical)
		if h.ReactionName != "" {
			fmt.Printf("       %s\n", h.ReactionName)
		}
	}

	gn.Info("Showing <em>%d</em> of <em>%s</em> matching reactions",
		len(res.Hits), humanize.Comma(int64(res.Total)))
	return nil
}
