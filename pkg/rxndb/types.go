package rxndb

import (
	"time"
)

// SourceRow is one transcribed row from a source document table, as
// read from a delimited import file.
type SourceRow struct {
	// Line is the 1-based line number in the import file.
	Line int `json:"line"`

	// DocReactionNo is the reaction number printed in the document,
	// empty when the table is unnumbered.
	DocReactionNo string `json:"docReactionNo"`

	// ReactionName is the descriptive reaction name.
	ReactionName string `json:"reactionName"`

	// FormulaLatex is the transcribed formula verbatim.
	FormulaLatex string `json:"formulaLatex"`

	// PH, RateValue, RateUnits, Method and Conditions describe the
	// measurement attached to the row.
	PH         string `json:"pH"`
	RateValue  string `json:"rateValue"`
	RateUnits  string `json:"rateUnits"`
	Method     string `json:"method"`
	Conditions string `json:"conditions"`

	// Comments is free-form commentary from the transcriber.
	Comments string `json:"comments"`

	// References holds semicolon-separated reference codes verbatim.
	References string `json:"references"`

	// PageInfo locates the row in the scanned document.
	PageInfo string `json:"pageInfo"`
}

// RowFailure records one source row the import pipeline could not
// process. Failures are data, not errors: they ride in the report so
// a bad row never aborts its batch.
type RowFailure struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Raw    string `json:"raw,omitempty"`
}

// ImportReport is the outcome of one import run.
type ImportReport struct {
	// SourcePath is the imported file.
	SourcePath string `json:"sourcePath"`

	// TableNo is the source document table the rows belong to.
	TableNo int `json:"tableNo"`

	// Created, Updated, Unchanged and Failed partition the input
	// rows. A re-import of identical rows reports all of them as
	// Unchanged.
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`

	// Measurements counts measurement rows written.
	Measurements int `json:"measurements"`

	// RefsLinked and RefsUnresolved count reference codes that did
	// and did not resolve to bibliography entries.
	RefsLinked     int `json:"refsLinked"`
	RefsUnresolved int `json:"refsUnresolved"`

	// Failures carries per-row diagnostics for the Failed count.
	Failures []RowFailure `json:"failures,omitempty"`

	// Duration is the wall-clock import time.
	Duration time.Duration `json:"duration"`
}

// Rows returns the number of input rows accounted for by the report.
func (r *ImportReport) Rows() int {
	return r.Created + r.Updated + r.Unchanged + r.Failed
}

// SearchQuery describes one search request.
type SearchQuery struct {
	// Text is the user query. Empty text with filters lists matching
	// reactions in creation order.
	Text string `json:"text"`

	// TableNo restricts results to one source table when > 0.
	TableNo int `json:"tableNo"`

	// ValidatedOnly restricts results to validated reactions.
	ValidatedOnly bool `json:"validatedOnly"`

	// Limit and Offset paginate the result. Limit <= 0 applies the
	// default page size.
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SearchHit is one ranked search result.
type SearchHit struct {
	ReactionID       int64   `json:"reactionId"`
	TableNo          int     `json:"tableNo"`
	DocReactionNo    string  `json:"docReactionNo"`
	ReactionName     string  `json:"reactionName"`
	FormulaLatex     string  `json:"formulaLatex"`
	FormulaCanonical string  `json:"formulaCanonical"`
	Validated        bool    `json:"validated"`
	Rank             float64 `json:"rank"`
}

// SearchResult is the outcome of one search request.
type SearchResult struct {
	Query SearchQuery `json:"query"`
	Hits  []SearchHit `json:"hits"`

	// Total is the number of matching rows before pagination.
	Total int `json:"total"`
}

// RebuildPhase names one state of the rebuild state machine.
type RebuildPhase string

const (
	RebuildIdle       RebuildPhase = "idle"
	RebuildBuilding   RebuildPhase = "building"
	RebuildValidating RebuildPhase = "validating"
	RebuildSwapping   RebuildPhase = "swapping"
	RebuildDone       RebuildPhase = "done"
)

// RebuildReport is the outcome of one rebuild run.
type RebuildReport struct {
	// Phase is the last phase reached. Done means the swap happened;
	// anything earlier means the live database was left untouched.
	Phase RebuildPhase `json:"phase"`

	// Reactions, Measurements and References count rows written into
	// the fresh artifact.
	Reactions    int `json:"reactions"`
	Measurements int `json:"measurements"`
	References   int `json:"references"`

	// ChecksPassed counts integrity checks that ran in Validating.
	ChecksPassed int `json:"checksPassed"`

	// Duration is the wall-clock rebuild time.
	Duration time.Duration `json:"duration"`
}

// Stats reports row counts and validation progress of the database.
type Stats struct {
	Reactions    int `json:"reactions"`
	Measurements int `json:"measurements"`
	References   int `json:"references"`
	Validated    int `json:"validated"`
	Skipped      int `json:"skipped"`

	// ByTable maps table_no to its reaction count.
	ByTable map[int]int `json:"byTable"`
}

// Snapshot is a point-in-time export of the validated, non-skipped
// portion of the database.
type Snapshot struct {
	// ID is a random identifier for this export run.
	ID string `json:"id"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"createdAt"`

	// Reactions holds the exported reactions with their measurements
	// and references.
	Reactions []ReactionDetail `json:"reactions"`
}
