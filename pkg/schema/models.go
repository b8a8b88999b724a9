// Package schema provides database schema models for the reaction
// database. Models generate their own SQLite DDL from struct tags.
package schema

import (
	"database/sql"
	"time"
)

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the SQLite table name for this model.
	TableName() string
}

// Reaction is one transcribed reaction from a source document table.
type Reaction struct {
	// ID is the SQLite rowid.
	ID int64 `db:"id" ddl:"INTEGER PRIMARY KEY"`

	// TableNo is the number of the source document table the reaction
	// was transcribed from.
	TableNo int `db:"table_no" ddl:"INTEGER NOT NULL"`

	// TableCategory is a human-readable category of the source table,
	// e.g. "OH radical reactions".
	TableCategory string `db:"table_category" ddl:"TEXT NOT NULL DEFAULT ''"`

	// DocReactionNo is the reaction number within the source table as
	// printed in the document. Empty when the document does not number
	// its reactions.
	DocReactionNo string `db:"doc_reaction_no" ddl:"TEXT NOT NULL DEFAULT ''"`

	// ReactionName is the descriptive name of the reaction.
	ReactionName string `db:"reaction_name" ddl:"TEXT NOT NULL DEFAULT ''"`

	// FormulaLatex is the reaction formula verbatim as transcribed.
	FormulaLatex string `db:"formula_latex" ddl:"TEXT NOT NULL"`

	// FormulaCanonical is the canonical comparison key derived from
	// FormulaLatex. Recomputed on every write of FormulaLatex.
	FormulaCanonical string `db:"formula_canonical" ddl:"TEXT NOT NULL"`

	// UUID is a deterministic UUID v5 of the canonical key. It is
	// stable across database rebuilds.
	UUID string `db:"uuid" ddl:"TEXT NOT NULL"`

	// Reactants and Products are display-oriented side texts.
	Reactants string `db:"reactants" ddl:"TEXT NOT NULL DEFAULT ''"`
	Products  string `db:"products" ddl:"TEXT NOT NULL DEFAULT ''"`

	// ReactantSpecies and ProductSpecies are JSON-encoded parsed
	// species lists from the canonicalizer.
	ReactantSpecies string `db:"reactant_species" ddl:"TEXT NOT NULL DEFAULT '[]'"`
	ProductSpecies  string `db:"product_species" ddl:"TEXT NOT NULL DEFAULT '[]'"`

	// Notes is free-form curator commentary.
	Notes string `db:"notes" ddl:"TEXT NOT NULL DEFAULT ''"`

	// ImagePath points at the scanned table crop the transcription
	// came from, relative to the data directory.
	ImagePath string `db:"image_path" ddl:"TEXT NOT NULL DEFAULT ''"`

	// SourcePath is the import file the record came from.
	SourcePath string `db:"source_path" ddl:"TEXT NOT NULL DEFAULT ''"`

	// Validated is true after a human confirmed the transcription.
	Validated bool `db:"validated" ddl:"INTEGER NOT NULL DEFAULT 0"`

	// ValidatedBy and ValidatedAt record who validated and when.
	// Both are cleared when validation is revoked.
	ValidatedBy sql.NullString `db:"validated_by" ddl:"TEXT"`
	ValidatedAt sql.NullTime   `db:"validated_at" ddl:"TIMESTAMP"`

	// Skipped marks records excluded from search and publication.
	Skipped bool `db:"skipped" ddl:"INTEGER NOT NULL DEFAULT 0"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
}

// Measurement is one measured rate record attached to a reaction.
type Measurement struct {
	// ID is the SQLite rowid.
	ID int64 `db:"id" ddl:"INTEGER PRIMARY KEY"`

	// ReactionID is the owning reaction. Measurements die with their
	// reaction.
	ReactionID int64 `db:"reaction_id" ddl:"INTEGER NOT NULL REFERENCES reactions(id) ON DELETE CASCADE"`

	// PH is the pH condition text verbatim, e.g. "7", "10.7", "~9".
	PH string `db:"ph" ddl:"TEXT NOT NULL DEFAULT ''"`

	// TemperatureC is the temperature in Celsius when stated.
	TemperatureC sql.NullFloat64 `db:"temperature_c" ddl:"REAL"`

	// RateValue is the rate constant verbatim, e.g. "5.5 x 10^9".
	RateValue string `db:"rate_value" ddl:"TEXT NOT NULL DEFAULT ''"`

	// RateValueNum is the parsed numeric rate, NULL when the verbatim
	// text did not parse.
	RateValueNum sql.NullFloat64 `db:"rate_value_num" ddl:"REAL"`

	// RateUnits is the unit text, e.g. "L mol-1 s-1".
	RateUnits string `db:"rate_units" ddl:"TEXT NOT NULL DEFAULT ''"`

	// Method and Conditions describe how the measurement was taken.
	Method     string `db:"method" ddl:"TEXT NOT NULL DEFAULT ''"`
	Conditions string `db:"conditions" ddl:"TEXT NOT NULL DEFAULT ''"`

	// ReferenceID links the resolved bibliography entry. NULL while
	// the reference code is unresolved.
	ReferenceID sql.NullInt64 `db:"reference_id" ddl:"INTEGER REFERENCES references_map(id) ON DELETE SET NULL"`

	// ReferencesRaw keeps the reference codes verbatim so unresolved
	// codes survive for later linking.
	ReferencesRaw string `db:"references_raw" ddl:"TEXT NOT NULL DEFAULT ''"`

	// SourcePath and PageInfo locate the measurement in the source.
	SourcePath string `db:"source_path" ddl:"TEXT NOT NULL DEFAULT ''"`
	PageInfo   string `db:"page_info" ddl:"TEXT NOT NULL DEFAULT ''"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
}

// Reference is one bibliography entry. Identity is the
// (document_id, code) pair: reference codes are only unique within
// one source document.
type Reference struct {
	// ID is the SQLite rowid.
	ID int64 `db:"id" ddl:"INTEGER PRIMARY KEY"`

	// DocumentID is the sources registry ID of the owning document.
	DocumentID string `db:"document_id" ddl:"TEXT NOT NULL"`

	// Code is the reference code as printed, e.g. "66-0154".
	Code string `db:"code" ddl:"TEXT NOT NULL"`

	// CitationText is the formatted citation.
	CitationText string `db:"citation_text" ddl:"TEXT NOT NULL DEFAULT ''"`

	// DOI and DOIStatus record resolution against the DOI registry.
	DOI       string `db:"doi" ddl:"TEXT NOT NULL DEFAULT ''"`
	DOIStatus string `db:"doi_status" ddl:"TEXT NOT NULL DEFAULT ''"`

	// RawText is the bibliography line verbatim.
	RawText string `db:"raw_text" ddl:"TEXT NOT NULL DEFAULT ''"`

	Notes string `db:"notes" ddl:"TEXT NOT NULL DEFAULT ''"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `db:"updated_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
}

// SchemaMigration tracks applied schema versions.
type SchemaMigration struct {
	Version     string    `db:"version" ddl:"TEXT PRIMARY KEY"`
	Description string    `db:"description" ddl:"TEXT"`
	AppliedAt   time.Time `db:"applied_at" ddl:"TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP"`
}
