// Package ioschema implements the SchemaManager interface for
// database schema management. This is an impure I/O package that
// executes the DDL generated by pkg/schema.
package ioschema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
)

// Version is the current schema version recorded in
// schema_migrations.
const Version = "1.0.0"

// manager implements the rxndb.SchemaManager interface.
type manager struct {
	operator rxndb.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op rxndb.Operator) rxndb.SchemaManager {
	return &manager{operator: op}
}

// Create initializes the schema: every table, index, the FTS5 search
// table and its sync triggers run inside one transaction, so the
// database ends up fully initialized or untouched.
func (m *manager) Create(ctx context.Context, force bool) error {
	db := m.operator.DB()
	if db == nil {
		return NotConnectedError()
	}

	hasTables, err := m.operator.HasTables(ctx)
	if err != nil {
		return err
	}
	if hasTables && !force {
		return SchemaExistsError(m.operator.Path())
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return CreateSchemaError(err)
	}
	defer tx.Rollback()

	if hasTables {
		if err = dropAll(ctx, tx); err != nil {
			return err
		}
	}

	for _, model := range schema.All() {
		if _, err = tx.ExecContext(ctx, model.TableDDL()); err != nil {
			return CreateSchemaError(
				fmt.Errorf("table %s: %w", model.TableName(), err))
		}
		for _, idx := range model.IndexDDL() {
			if _, err = tx.ExecContext(ctx, idx); err != nil {
				return CreateSchemaError(
					fmt.Errorf("index for %s: %w", model.TableName(), err))
			}
		}
	}

	if _, err = tx.ExecContext(ctx, schema.FTSDDL()); err != nil {
		return CreateSchemaError(fmt.Errorf("fts table: %w", err))
	}
	for _, trg := range schema.TriggerDDL() {
		if _, err = tx.ExecContext(ctx, trg); err != nil {
			return CreateSchemaError(fmt.Errorf("fts trigger: %w", err))
		}
	}

	if err = recordVersion(ctx, tx, Version, "initial schema"); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return CreateSchemaError(err)
	}
	return nil
}

// Migrate brings an existing database to the current schema version.
// Each applied step lands in schema_migrations. With a single schema
// version this records the baseline when it is missing.
func (m *manager) Migrate(ctx context.Context) error {
	db := m.operator.DB()
	if db == nil {
		return NotConnectedError()
	}

	hasTables, err := m.operator.HasTables(ctx)
	if err != nil {
		return err
	}
	if !hasTables {
		return MigrateSchemaError(
			fmt.Errorf("database has no schema, run 'rxndb create' first"))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return MigrateSchemaError(err)
	}
	defer tx.Rollback()

	var applied bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)",
		Version,
	).Scan(&applied)
	if err != nil {
		return MigrateSchemaError(err)
	}

	if !applied {
		if err = recordVersion(ctx, tx, Version, "baseline"); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}

func recordVersion(
	ctx context.Context,
	tx *sql.Tx,
	version, description string,
) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		version, description,
	)
	if err != nil {
		return CreateSchemaError(fmt.Errorf("schema_migrations: %w", err))
	}
	return nil
}

// dropAll removes every user table, trigger and the FTS table so a
// forced create starts from a clean file.
func dropAll(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT type, name FROM sqlite_master
		WHERE type IN ('table', 'trigger')
		AND name NOT LIKE 'sqlite_%'`,
	)
	if err != nil {
		return CreateSchemaError(err)
	}
	defer rows.Close()

	type object struct{ typ, name string }
	var objects []object
	for rows.Next() {
		var o object
		if err = rows.Scan(&o.typ, &o.name); err != nil {
			return CreateSchemaError(err)
		}
		objects = append(objects, o)
	}
	if err = rows.Err(); err != nil {
		return CreateSchemaError(err)
	}

	// Triggers first, then tables; the FTS shadow tables disappear
	// with their virtual table.
	for _, o := range objects {
		if o.typ != "trigger" {
			continue
		}
		if _, err = tx.ExecContext(ctx,
			fmt.Sprintf("DROP TRIGGER IF EXISTS %s", o.name)); err != nil {
			return CreateSchemaError(fmt.Errorf("drop trigger %s: %w", o.name, err))
		}
	}
	for _, o := range objects {
		if o.typ != "table" {
			continue
		}
		// FTS5 shadow tables die with their virtual table.
		if strings.Contains(o.name, "_fts_") {
			continue
		}
		if _, err = tx.ExecContext(ctx,
			fmt.Sprintf("DROP TABLE IF EXISTS %s", o.name)); err != nil {
			return CreateSchemaError(fmt.Errorf("drop table %s: %w", o.name, err))
		}
	}
	return nil
}
