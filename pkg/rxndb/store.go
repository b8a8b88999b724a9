package rxndb

import (
	"context"

	"github.com/radreactions/rxndb/pkg/schema"
)

// Store defines the interface for the storage layer. It is the only
// write path into the database and enforces the engine's invariants:
// the canonical key, UUID and species lists are recomputed from the
// raw formula inside the same transaction as the row write, and
// validation metadata moves only through SetValidation.
//
// Implementations serialize writers internally; any number of
// concurrent readers may run alongside one writer.
type Store interface {
	// UpsertReaction inserts or updates a reaction. The caller sets
	// FormulaLatex and descriptive fields; FormulaCanonical, UUID and
	// the species columns are derived in the same transaction.
	// Returns true when a new row was created.
	UpsertReaction(ctx context.Context, r *schema.Reaction) (bool, error)

	// UpsertMeasurement inserts or updates one measurement row.
	UpsertMeasurement(ctx context.Context, m *schema.Measurement) error

	// UpsertReference inserts or updates a bibliography entry keyed
	// by its (document_id, code) pair and returns its row id.
	UpsertReference(ctx context.Context, ref *schema.Reference) (int64, error)

	// ReplaceMeasurements swaps the full measurement set of one
	// reaction in a single transaction.
	ReplaceMeasurements(ctx context.Context, reactionID int64, ms []schema.Measurement) error

	// UpsertReactionWithMeasurements writes a reaction and swaps its
	// full measurement set in one transaction, so a crash mid-import
	// never leaves the reaction committed without its measurements.
	// Returns true when a new reaction row was created.
	UpsertReactionWithMeasurements(ctx context.Context, r *schema.Reaction, ms []schema.Measurement) (bool, error)

	// SetValidation marks a reaction validated or not. A false→true
	// transition records by and the current time; a true→false
	// transition clears both.
	SetValidation(ctx context.Context, reactionID int64, validated bool, by string) error

	// SetSkipped marks a reaction excluded from search and
	// publication.
	SetSkipped(ctx context.Context, reactionID int64, skipped bool) error

	// GetReaction loads one reaction with its measurements and the
	// references they link to.
	GetReaction(ctx context.Context, id int64) (*ReactionDetail, error)

	// GetReactionByKey loads a reaction by source identity, falling
	// back to the canonical key. Returns nil when no row matches.
	GetReactionByKey(ctx context.Context, tableNo int, docReactionNo, sourcePath, canonical string) (*schema.Reaction, error)

	// ListByTable pages through reactions of one source table in
	// creation order.
	ListByTable(ctx context.Context, tableNo, limit, offset int) ([]schema.Reaction, error)

	// Stats reports row counts and validation progress.
	Stats(ctx context.Context) (*Stats, error)

	// SnapshotValidated exports every validated, non-skipped reaction
	// with its measurements and references as a point-in-time dump.
	SnapshotValidated(ctx context.Context) (*Snapshot, error)
}

// ReactionDetail is a reaction with its measurements and resolved
// references.
type ReactionDetail struct {
	Reaction     schema.Reaction      `json:"reaction"`
	Measurements []schema.Measurement `json:"measurements"`
	References   []schema.Reference   `json:"references"`
}
