package ioschema_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/radreactions/rxndb/internal/iodb"
	"github.com/radreactions/rxndb/internal/ioschema"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManagerImplementsInterface verifies compile-time contract
// compliance.
func TestManagerImplementsInterface(t *testing.T) {
	var _ rxndb.SchemaManager = ioschema.NewManager(nil)
}

func newOperator(t *testing.T) rxndb.Operator {
	t.Helper()
	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "rxndb.sqlite")

	op := iodb.New()
	require.NoError(t, op.Connect(context.Background(), &cfg.Database))
	t.Cleanup(func() { op.Close() })
	return op
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)

	err := mgr.Create(ctx, false)
	require.NoError(t, err)

	for _, table := range []string{
		"reactions", "measurements", "references_map",
		"schema_migrations", "reactions_fts",
	} {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}

	// Schema version is recorded.
	var version string
	err = op.DB().QueryRowContext(ctx,
		"SELECT version FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, ioschema.Version, version)
}

func TestCreateRefusesExisting(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)

	require.NoError(t, mgr.Create(ctx, false))
	err := mgr.Create(ctx, false)
	assert.Error(t, err)
}

func TestCreateForceDropsData(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)

	require.NoError(t, mgr.Create(ctx, false))

	_, err := op.DB().ExecContext(ctx, `
		INSERT INTO reactions (table_no, formula_latex, formula_canonical, uuid)
		VALUES (6, 'OH + OH', 'OH+OH->∅', 'u1')`)
	require.NoError(t, err)

	require.NoError(t, mgr.Create(ctx, true))

	var n int
	err = op.DB().QueryRowContext(ctx,
		"SELECT count(*) FROM reactions").Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFTSTriggersKeepIndexInSync(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, false))

	db := op.DB()

	_, err := db.ExecContext(ctx, `
		INSERT INTO reactions
			(table_no, reaction_name, formula_latex, formula_canonical, uuid)
		VALUES (6, 'hydroxyl recombination', 'OH + OH -> H2O2', 'OH+OH->H2O2', 'u1')`)
	require.NoError(t, err)

	var n int
	err = db.QueryRowContext(ctx, `
		SELECT count(*) FROM reactions_fts
		WHERE reactions_fts MATCH 'hydroxyl'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Update reindexes the row.
	_, err = db.ExecContext(ctx,
		"UPDATE reactions SET reaction_name = 'peroxide formation' WHERE uuid = 'u1'")
	require.NoError(t, err)

	err = db.QueryRowContext(ctx, `
		SELECT count(*) FROM reactions_fts
		WHERE reactions_fts MATCH 'hydroxyl'`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = db.QueryRowContext(ctx, `
		SELECT count(*) FROM reactions_fts
		WHERE reactions_fts MATCH 'peroxide'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Delete removes it.
	_, err = db.ExecContext(ctx, "DELETE FROM reactions WHERE uuid = 'u1'")
	require.NoError(t, err)

	err = db.QueryRowContext(ctx,
		"SELECT count(*) FROM reactions_fts WHERE reactions_fts MATCH 'peroxide'").Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMigrateRequiresSchema(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)

	err := mgr.Migrate(ctx)
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	op := newOperator(t)
	mgr := ioschema.NewManager(op)

	require.NoError(t, mgr.Create(ctx, false))
	require.NoError(t, mgr.Migrate(ctx))
	require.NoError(t, mgr.Migrate(ctx))

	var n int
	err := op.DB().QueryRowContext(ctx,
		"SELECT count(*) FROM schema_migrations").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
