package iostore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReaction(row rowScanner) (*schema.Reaction, error) {
	var r schema.Reaction
	err := row.Scan(
		&r.ID, &r.TableNo, &r.TableCategory, &r.DocReactionNo,
		&r.ReactionName, &r.FormulaLatex, &r.FormulaCanonical, &r.UUID,
		&r.Reactants, &r.Products, &r.ReactantSpecies, &r.ProductSpecies,
		&r.Notes, &r.ImagePath, &r.SourcePath,
		&r.Validated, &r.ValidatedBy, &r.ValidatedAt, &r.Skipped,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanMeasurement(row rowScanner) (*schema.Measurement, error) {
	var m schema.Measurement
	err := row.Scan(
		&m.ID, &m.ReactionID, &m.PH, &m.TemperatureC,
		&m.RateValue, &m.RateValueNum, &m.RateUnits,
		&m.Method, &m.Conditions, &m.ReferenceID, &m.ReferencesRaw,
		&m.SourcePath, &m.PageInfo, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const measurementCols = `id, reaction_id, ph, temperature_c,
	rate_value, rate_value_num, rate_units, method, conditions,
	reference_id, references_raw, source_path, page_info,
	created_at, updated_at`

// findReactionTx resolves a reaction's identity inside a write
// transaction. Numbered rows match on their document number;
// unnumbered rows fall back to the canonical key within the same
// source file. The fallback never applies to numbered rows, two
// numbered entries may share a formula while transcription is in
// flight; the rebuild refuses to publish such a pair.
func findReactionTx(
	ctx context.Context,
	tx *sql.Tx,
	tableNo int,
	docReactionNo, sourcePath, canonical string,
) (*schema.Reaction, error) {
	var row *sql.Row
	if docReactionNo != "" {
		row = tx.QueryRowContext(ctx,
			"SELECT "+reactionCols+` FROM reactions
			WHERE table_no = ? AND doc_reaction_no = ?`,
			tableNo, docReactionNo,
		)
	} else {
		row = tx.QueryRowContext(ctx,
			"SELECT "+reactionCols+` FROM reactions
			WHERE table_no = ? AND doc_reaction_no = ''
			AND source_path = ? AND formula_canonical = ?`,
			tableNo, sourcePath, canonical,
		)
	}

	r, err := scanReaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, UpsertError("reactions", err)
	}
	return r, nil
}

// GetReactionByKey loads a reaction by source identity, falling back
// to the canonical key. Returns nil when no row matches.
func (s *iostore) GetReactionByKey(
	ctx context.Context,
	tableNo int,
	docReactionNo, sourcePath, canonical string,
) (*schema.Reaction, error) {
	db := s.op.DB()
	if db == nil {
		return nil, NotConnectedError()
	}

	var row *sql.Row
	if docReactionNo != "" {
		row = db.QueryRowContext(ctx,
			"SELECT "+reactionCols+` FROM reactions
			WHERE table_no = ? AND doc_reaction_no = ?`,
			tableNo, docReactionNo,
		)
	} else {
		row = db.QueryRowContext(ctx,
			"SELECT "+reactionCols+` FROM reactions
			WHERE table_no = ? AND doc_reaction_no = ''
			AND source_path = ? AND formula_canonical = ?`,
			tableNo, sourcePath, canonical,
		)
	}
	r, err := scanReaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ListError(err)
	}
	return r, nil
}

// GetReaction loads one reaction with its measurements and the
// references they link to.
func (s *iostore) GetReaction(
	ctx context.Context,
	id int64,
) (*rxndb.ReactionDetail, error) {
	db := s.op.DB()
	if db == nil {
		return nil, NotConnectedError()
	}

	row := db.QueryRowContext(ctx,
		"SELECT "+reactionCols+" FROM reactions WHERE id = ?", id,
	)
	r, err := scanReaction(row)
	if err == sql.ErrNoRows {
		return nil, NotFoundError(id)
	}
	if err != nil {
		return nil, ListError(err)
	}

	detail := rxndb.ReactionDetail{Reaction: *r}
	if err = s.attachMeasurements(ctx, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *iostore) attachMeasurements(
	ctx context.Context,
	detail *rxndb.ReactionDetail,
) error {
	db := s.op.DB()

	rows, err := db.QueryContext(ctx,
		"SELECT "+measurementCols+` FROM measurements
		WHERE reaction_id = ? ORDER BY id`,
		detail.Reaction.ID,
	)
	if err != nil {
		return ListError(err)
	}
	defer rows.Close()

	refIDs := make(map[int64]bool)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return ListError(err)
		}
		detail.Measurements = append(detail.Measurements, *m)
		if m.ReferenceID.Valid {
			refIDs[m.ReferenceID.Int64] = true
		}
	}
	if err = rows.Err(); err != nil {
		return ListError(err)
	}

	for refID := range refIDs {
		var ref schema.Reference
		err = db.QueryRowContext(ctx, `
			SELECT id, document_id, code, citation_text, doi, doi_status,
				raw_text, notes, created_at, updated_at
			FROM references_map WHERE id = ?`, refID,
		).Scan(
			&ref.ID, &ref.DocumentID, &ref.Code, &ref.CitationText,
			&ref.DOI, &ref.DOIStatus, &ref.RawText, &ref.Notes,
			&ref.CreatedAt, &ref.UpdatedAt,
		)
		if err != nil {
			return ListError(err)
		}
		detail.References = append(detail.References, ref)
	}
	return nil
}

// ListByTable pages through reactions of one source table in
// creation order.
func (s *iostore) ListByTable(
	ctx context.Context,
	tableNo, limit, offset int,
) ([]schema.Reaction, error) {
	db := s.op.DB()
	if db == nil {
		return nil, NotConnectedError()
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+reactionCols+` FROM reactions
		WHERE table_no = ? ORDER BY id LIMIT ? OFFSET ?`,
		tableNo, limit, offset,
	)
	if err != nil {
		return nil, ListError(err)
	}
	defer rows.Close()

	var res []schema.Reaction
	for rows.Next() {
		r, err := scanReaction(rows)
		if err != nil {
			return nil, ListError(err)
		}
		res = append(res, *r)
	}
	if err = rows.Err(); err != nil {
		return nil, ListError(err)
	}
	return res, nil
}

// Stats reports row counts and validation progress.
func (s *iostore) Stats(ctx context.Context) (*rxndb.Stats, error) {
	db := s.op.DB()
	if db == nil {
		return nil, NotConnectedError()
	}

	st := rxndb.Stats{ByTable: make(map[int]int)}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT count(*) FROM reactions", &st.Reactions},
		{"SELECT count(*) FROM measurements", &st.Measurements},
		{"SELECT count(*) FROM references_map", &st.References},
		{"SELECT count(*) FROM reactions WHERE validated = 1", &st.Validated},
		{"SELECT count(*) FROM reactions WHERE skipped = 1", &st.Skipped},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, StatsError(err)
		}
	}

	rows, err := db.QueryContext(ctx,
		"SELECT table_no, count(*) FROM reactions GROUP BY table_no",
	)
	if err != nil {
		return nil, StatsError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var tableNo, n int
		if err = rows.Scan(&tableNo, &n); err != nil {
			return nil, StatsError(err)
		}
		st.ByTable[tableNo] = n
	}
	if err = rows.Err(); err != nil {
		return nil, StatsError(err)
	}
	return &st, nil
}

// SnapshotValidated exports every validated, non-skipped reaction
// with its measurements and references. The export runs in one read
// transaction, so it is a consistent point-in-time view even while
// imports continue.
func (s *iostore) SnapshotValidated(
	ctx context.Context,
) (*rxndb.Snapshot, error) {
	db := s.op.DB()
	if db == nil {
		return nil, NotConnectedError()
	}

	snap := rxndb.Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+reactionCols+` FROM reactions
		WHERE validated = 1 AND skipped = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, SnapshotError(err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanReaction(rows)
		if err != nil {
			return nil, SnapshotError(err)
		}
		snap.Reactions = append(snap.Reactions, rxndb.ReactionDetail{Reaction: *r})
	}
	if err = rows.Err(); err != nil {
		return nil, SnapshotError(err)
	}

	for i := range snap.Reactions {
		if err = s.attachMeasurements(ctx, &snap.Reactions[i]); err != nil {
			return nil, SnapshotError(err)
		}
	}
	return &snap, nil
}
