package iorebuild

import (
	"context"
	"fmt"

	"github.com/radreactions/rxndb/pkg/rxndb"
	"golang.org/x/sync/errgroup"
)

// check is a named integrity assertion against the freshly built
// artifact.
type check struct {
	name  string
	query string
	want  func(got int) error
}

// validate runs all integrity checks concurrently. Any failure
// aborts the rebuild before the swap.
func (p *rebuilder) validate(
	ctx context.Context,
	fresh rxndb.Operator,
	report *rxndb.RebuildReport,
) error {
	if err := ctx.Err(); err != nil {
		return CancelledError(err)
	}
	db := fresh.DB()

	var reactions int
	err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM reactions").Scan(&reactions)
	if err != nil {
		return BuildError(err)
	}

	zero := func(name string) func(int) error {
		return func(got int) error {
			if got != 0 {
				return fmt.Errorf("%s: found %d", name, got)
			}
			return nil
		}
	}

	checks := []check{
		{
			name:  "fts index coverage",
			query: "SELECT count(*) FROM reactions_fts",
			want: func(got int) error {
				if got != reactions {
					return fmt.Errorf(
						"fts index covers %d of %d reactions",
						got, reactions,
					)
				}
				return nil
			},
		},
		{
			name: "orphaned measurements",
			query: `SELECT count(*) FROM measurements m
				LEFT JOIN reactions r ON r.id = m.reaction_id
				WHERE r.id IS NULL`,
			want: zero("measurements without a reaction"),
		},
		{
			name: "dangling reference links",
			query: `SELECT count(*) FROM measurements m
				LEFT JOIN references_map f ON f.id = m.reference_id
				WHERE m.reference_id IS NOT NULL AND f.id IS NULL`,
			want: zero("measurements pointing at missing references"),
		},
		{
			// Drafts may share a formula while transcription is in
			// flight; the published set must not.
			name: "duplicate canonical keys",
			query: `SELECT count(*) FROM (
				SELECT table_no, formula_canonical FROM reactions
				GROUP BY table_no, formula_canonical
				HAVING count(*) > 1)`,
			want: zero("validated reactions sharing a canonical key"),
		},
		{
			name: "draft rows leaked into artifact",
			query: `SELECT count(*) FROM reactions
				WHERE validated = 0 OR skipped = 1`,
			want: zero("unvalidated or skipped reactions"),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range checks {
		g.Go(func() error {
			var got int
			if err := db.QueryRowContext(gctx, c.query).
				Scan(&got); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			return c.want(got)
		})
	}
	if err := g.Wait(); err != nil {
		return IntegrityError(err)
	}

	report.ChecksPassed = len(checks)
	return nil
}

// optimize refreshes planner statistics and compacts the artifact
// before it goes live.
func optimize(ctx context.Context, fresh rxndb.Operator) error {
	db := fresh.DB()
	for _, stmt := range []string{"ANALYZE", "VACUUM"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return BuildError(fmt.Errorf("%s: %w", stmt, err))
		}
	}
	return nil
}
