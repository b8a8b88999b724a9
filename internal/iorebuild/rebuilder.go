// Package iorebuild implements the offline rebuild of the reaction
// database: a fresh artifact is built next to the live file from
// validated records only, checked for integrity, optimized, and
// atomically swapped in. The live database is never modified in
// place; any failure before the swap leaves it byte-for-byte
// untouched.
package iorebuild

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/radreactions/rxndb/internal/iodb"
	"github.com/radreactions/rxndb/internal/ioschema"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
)

// rebuilder implements the rxndb.Rebuilder interface.
type rebuilder struct {
	cfg      *config.Config
	operator rxndb.Operator
}

// New creates a new Rebuilder over the live database operator.
func New(cfg *config.Config, op rxndb.Operator) rxndb.Rebuilder {
	return &rebuilder{cfg: cfg, operator: op}
}

// Rebuild runs the build, validate and swap phases.
func (p *rebuilder) Rebuild(ctx context.Context) (*rxndb.RebuildReport, error) {
	if p.operator.DB() == nil {
		return nil, BuildError(fmt.Errorf("not connected to database"))
	}

	start := time.Now()
	report := &rxndb.RebuildReport{Phase: rxndb.RebuildIdle}

	// The artifact lives in the live database's directory so the
	// final rename stays on one filesystem.
	livePath := p.operator.Path()
	tmpPath := fmt.Sprintf("%s.rebuild-%d", livePath, os.Getpid())

	fresh := iodb.New()
	freshCfg := p.cfg.Database
	freshCfg.Path = tmpPath

	discard := func() {
		fresh.Close()
		os.Remove(tmpPath)
		os.Remove(tmpPath + "-wal")
		os.Remove(tmpPath + "-shm")
	}

	if err := fresh.Connect(ctx, &freshCfg); err != nil {
		discard()
		return report, BuildError(err)
	}

	slog.Info("Starting rebuild", "live", livePath, "artifact", tmpPath)

	report.Phase = rxndb.RebuildBuilding
	if err := p.build(ctx, fresh, report); err != nil {
		discard()
		return report, err
	}

	report.Phase = rxndb.RebuildValidating
	if err := p.validate(ctx, fresh, report); err != nil {
		discard()
		return report, err
	}
	if err := optimize(ctx, fresh); err != nil {
		discard()
		return report, err
	}

	// The artifact's handle must be closed before the rename so no
	// WAL or shared-memory file outlives it.
	if err := fresh.Close(); err != nil {
		discard()
		return report, BuildError(err)
	}

	report.Phase = rxndb.RebuildSwapping
	if err := p.operator.Replace(ctx, tmpPath); err != nil {
		os.Remove(tmpPath)
		return report, SwapError(err)
	}

	report.Phase = rxndb.RebuildDone
	report.Duration = time.Since(start)

	gn.Info("Rebuild finished: <em>%d</em> reactions in %s",
		report.Reactions,
		gnfmt.TimeString(report.Duration.Seconds()),
	)
	return report, nil
}

// build copies the validated, non-skipped portion of the live
// database into the fresh artifact, creating the schema first.
func (p *rebuilder) build(
	ctx context.Context,
	fresh rxndb.Operator,
	report *rxndb.RebuildReport,
) error {
	if err := ctx.Err(); err != nil {
		return CancelledError(err)
	}

	mgr := ioschema.NewManager(fresh)
	if err := mgr.Create(ctx, false); err != nil {
		return BuildError(err)
	}

	live := p.operator.DB()
	dst := fresh.DB()

	tx, err := dst.BeginTx(ctx, nil)
	if err != nil {
		return BuildError(err)
	}
	defer tx.Rollback()

	// Row ids are preserved so foreign keys copy verbatim. The
	// bibliography goes first, measurements point at it.
	report.References, err = copyRows(ctx, live, tx, "references_map", "")
	if err != nil {
		return err
	}
	report.Reactions, err = copyRows(
		ctx, live, tx, "reactions",
		"WHERE validated = 1 AND skipped = 0",
	)
	if err != nil {
		return err
	}
	report.Measurements, err = copyRows(
		ctx, live, tx, "measurements",
		`WHERE reaction_id IN
			(SELECT id FROM reactions WHERE validated = 1 AND skipped = 0)`,
	)
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return BuildError(err)
	}
	return nil
}
