package rxndb

import (
	"context"

	"github.com/radreactions/rxndb/pkg/sources"
)

// SchemaManager defines the interface for database schema management.
// Creation builds every table, index, the FTS5 search table and its
// sync triggers inside one transaction, so a database is either fully
// initialized or untouched.
type SchemaManager interface {
	// Create initializes the schema. When tables already exist it
	// fails unless force is set, in which case existing tables are
	// dropped first.
	Create(ctx context.Context, force bool) error

	// Migrate brings an existing database to the current schema
	// version, recording each applied step in schema_migrations.
	Migrate(ctx context.Context) error
}

// Importer defines the interface for the idempotent import pipeline.
// Re-importing the same source rows leaves the database unchanged and
// reports every row as unchanged.
type Importer interface {
	// ImportFile reads a delimited transcription file for the given
	// source document and imports its rows.
	ImportFile(ctx context.Context, doc sources.Document, path string) (*ImportReport, error)

	// ImportRows imports already-parsed source rows for the given
	// document. One malformed row is recorded in the report and never
	// aborts the batch.
	ImportRows(ctx context.Context, doc sources.Document, rows []SourceRow) (*ImportReport, error)
}

// Searcher defines the interface for the read-only search service.
type Searcher interface {
	// Search runs a full-text query with optional filters and
	// pagination over non-skipped reactions.
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

// Rebuilder defines the interface for the offline rebuild tool.
//
// Rebuild never modifies the live database in place: it builds a
// fresh artifact next to the live file, validates it, and atomically
// swaps it in via Operator.Replace. A failure in any phase before the
// swap leaves the live database byte-for-byte untouched.
type Rebuilder interface {
	// Rebuild runs the build, validate and swap phases and reports
	// per-phase outcomes.
	Rebuild(ctx context.Context) (*RebuildReport, error)
}
