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
	"strconv"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/spf13/cobra"
)

// getValidateCmd returns the validate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getValidateCmd() *cobra.Command {
	var (
		by    string
		unset bool
	)

	validateCmd := &cobra.Command{
		Use:   "validate <reaction-id>",
		Short: "Mark a reaction validated",
		Long: `Mark a reaction's transcription as validated.

Validation records who confirmed the transcription and when.
Revoking validation with --unset clears both. Only validated
reactions survive a rebuild and appear in exports.

Examples:
  rxndb validate 104 --by alice
  rxndb validate 104 --unset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runValidate(args[0], by, unset)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	validateCmd.Flags().StringVarP(&by, "by", "b", "",
		"name of the validating curator")
	validateCmd.Flags().BoolVarP(&unset, "unset", "u", false,
		"revoke validation instead of granting it")

	return validateCmd
}

func runValidate(arg, by string, unset bool) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		gn.Warn("<warn>Reaction id must be a number, got '%s'</warn>", arg)
		return err
	}

	if !unset && by == "" {
		gn.Warn("<warn>--by is required when validating</warn>")
		err = fmt.Errorf("missing --by flag")
		slog.Error("missing flag", "error", err)
		return err
	}

	ctx := context.Background()

	op, err := connectOperator(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	store := iostore.New(op)
	if err = store.SetValidation(ctx, id, !unset, by); err != nil {
		return err
	}

	if unset {
		gn.Info("Reaction <em>%d</em> validation revoked", id)
	} else {
		gn.Info("Reaction <em>%d</em> validated by <em>%s</em>", id, by)
	}
	return nil
}
