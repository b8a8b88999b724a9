// Package rxndb holds the engine's public contracts: the database
// operator, lifecycle components (schema, import, rebuild), the
// storage layer and the search service, plus the row and report types
// they exchange. Implementations live under internal/io*.
package rxndb

import (
	"context"
	"database/sql"

	"github.com/radreactions/rxndb/pkg/config"
)

// Operator defines the interface for basic database management
// operations. It owns the connection lifecycle and exposes the
// *sql.DB handle for lifecycle components (SchemaManager, Importer,
// Searcher, Rebuilder) to execute their specialized SQL internally.
//
// The engine follows a single-writer, many-reader discipline: the
// database runs in WAL mode so read transactions never block on the
// writer, and all writes go through one serialized path in the
// storage layer.
type Operator interface {
	// Connect opens the database file, creating it when absent, and
	// applies the connection pragmas (WAL journal, foreign keys,
	// busy timeout).
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close closes the database handle.
	Close() error

	// DB returns the underlying handle for lifecycle components to
	// run transactions and custom queries.
	DB() *sql.DB

	// Path returns the filesystem path of the connected database.
	Path() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database contains any tables. Used to
	// decide whether schema creation should ask for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// Replace atomically swaps the live database file for the file at
	// newPath: the live handle is closed, newPath is renamed over the
	// live path, and the handle is reopened. Both paths must be on
	// the same filesystem.
	Replace(ctx context.Context, newPath string) error
}
