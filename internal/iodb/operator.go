// Package iodb implements database operations on an embedded SQLite
// file. This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"

	_ "modernc.org/sqlite"
)

// sqliteOperator implements rxndb.Operator over one SQLite file.
type sqliteOperator struct {
	db   *sql.DB
	cfg  *config.DatabaseConfig
	path string
}

// New creates a new database operator (without connecting).
func New() rxndb.Operator {
	return &sqliteOperator{}
}

// Connect opens the database file and applies the connection pragmas.
// The file is created when absent. Pragmas are passed in the DSN so
// every pooled connection gets them:
//   - journal_mode=WAL: readers never block on the writer
//   - foreign_keys=ON: measurement and reference links are enforced
//   - busy_timeout: a reader arriving during a checkpoint waits
//     instead of failing
func (p *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		path, cfg.BusyTimeout,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return ConnectionError(path, err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return ConnectionError(path, err)
	}

	p.db = db
	p.cfg = cfg
	p.path = path
	return nil
}

// Close closes the database handle.
func (p *sqliteOperator) Close() error {
	if p.db != nil {
		err := p.db.Close()
		p.db = nil
		return err
	}
	return nil
}

// DB returns the underlying handle for lifecycle components.
func (p *sqliteOperator) DB() *sql.DB {
	return p.db
}

// Path returns the filesystem path of the connected database.
func (p *sqliteOperator) Path() string {
	return p.path
}

// TableExists checks if a table exists in the database.
func (p *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type IN ('table', 'view')
			AND name = ?
		)
	`

	var exists bool
	err := p.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if the database contains any user tables.
func (p *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table'
			AND name NOT LIKE 'sqlite_%'
		)
	`

	var hasTables bool
	err := p.db.QueryRowContext(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}

// Replace atomically swaps the live database file for the file at
// newPath. The live handle is closed first so its WAL and shared
// memory files are checkpointed away, then a single rename moves the
// fresh file into place, then the handle is reopened. Rename is
// atomic on POSIX filesystems, so readers opening the path see either
// the old file or the new one, never a mix.
func (p *sqliteOperator) Replace(ctx context.Context, newPath string) error {
	if p.db == nil {
		return NotConnectedError()
	}

	cfg := p.cfg
	livePath := p.path

	if err := p.Close(); err != nil {
		return ReplaceError(livePath, newPath, err)
	}

	if err := os.Rename(newPath, livePath); err != nil {
		// Reopen the old file so the operator stays usable.
		if cErr := p.Connect(ctx, cfg); cErr != nil {
			return ReplaceError(livePath, newPath, cErr)
		}
		return ReplaceError(livePath, newPath, err)
	}

	return p.Connect(ctx, cfg)
}
