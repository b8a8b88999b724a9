// Package iostore implements the storage layer over the SQLite
// operator. It is the only write path into the database: canonical
// keys, UUIDs and species lists are derived from the raw formula
// inside the writing transaction, and all writers are serialized so
// the single-writer discipline holds regardless of caller concurrency.
package iostore

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/radreactions/rxndb/pkg/canon"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
)

type iostore struct {
	op  rxndb.Operator
	enc gnfmt.Encoder

	// mu serializes all writes. Readers go straight to the WAL file
	// and never take it.
	mu sync.Mutex
}

// New creates a storage layer over a connected operator.
func New(op rxndb.Operator) rxndb.Store {
	return &iostore{op: op, enc: gnfmt.GNjson{}}
}

const reactionCols = `id, table_no, table_category, doc_reaction_no,
	reaction_name, formula_latex, formula_canonical, uuid,
	reactants, products, reactant_species, product_species,
	notes, image_path, source_path,
	validated, validated_by, validated_at, skipped,
	created_at, updated_at`

// derive fills the computed columns of a reaction from its raw
// formula. It runs on every write so the canonical key, UUID and
// species lists can never drift from formula_latex.
func (s *iostore) derive(r *schema.Reaction) error {
	res := canon.Canonicalize(r.FormulaLatex)
	r.FormulaCanonical = res.Key
	r.UUID = gnuuid.New(res.Key).String()

	if r.Reactants == "" {
		r.Reactants = renderSide(res.Reactants)
	}
	if r.Products == "" {
		r.Products = renderSide(res.Products)
	}

	reactants, err := s.enc.Encode(res.Reactants)
	if err != nil {
		return err
	}
	products, err := s.enc.Encode(res.Products)
	if err != nil {
		return err
	}
	r.ReactantSpecies = string(reactants)
	r.ProductSpecies = string(products)
	return nil
}

func renderSide(side []canon.Species) string {
	if len(side) == 0 {
		return canon.EmptySide
	}
	parts := make([]string, len(side))
	for i, sp := range side {
		parts[i] = sp.String()
	}
	return strings.Join(parts, " + ")
}

// UpsertReaction inserts or updates a reaction. The computed columns
// are derived in the same transaction as the row write. Returns true
// when a new row was created.
func (s *iostore) UpsertReaction(
	ctx context.Context,
	r *schema.Reaction,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return false, NotConnectedError()
	}

	if err := s.derive(r); err != nil {
		return false, UpsertError("reactions", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, UpsertError("reactions", err)
	}
	defer tx.Rollback()

	created, err := s.upsertReactionTx(ctx, tx, r)
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, UpsertError("reactions", err)
	}
	return created, nil
}

// upsertReactionTx resolves the reaction's identity and writes the
// row inside the caller's transaction.
func (s *iostore) upsertReactionTx(
	ctx context.Context,
	tx *sql.Tx,
	r *schema.Reaction,
) (bool, error) {
	if r.ID == 0 {
		existing, err := findReactionTx(
			ctx, tx, r.TableNo, r.DocReactionNo, r.SourcePath, r.FormulaCanonical,
		)
		if err != nil {
			return false, err
		}
		if existing != nil {
			r.ID = existing.ID
		}
	}

	created := r.ID == 0
	if created {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reactions
				(table_no, table_category, doc_reaction_no, reaction_name,
				 formula_latex, formula_canonical, uuid,
				 reactants, products, reactant_species, product_species,
				 notes, image_path, source_path, skipped)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.TableNo, r.TableCategory, r.DocReactionNo, r.ReactionName,
			r.FormulaLatex, r.FormulaCanonical, r.UUID,
			r.Reactants, r.Products, r.ReactantSpecies, r.ProductSpecies,
			r.Notes, r.ImagePath, r.SourcePath, r.Skipped,
		)
		if err != nil {
			return false, UpsertError("reactions", err)
		}
		r.ID, err = res.LastInsertId()
		if err != nil {
			return false, UpsertError("reactions", err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			UPDATE reactions SET
				table_no = ?, table_category = ?, doc_reaction_no = ?,
				reaction_name = ?, formula_latex = ?, formula_canonical = ?,
				uuid = ?, reactants = ?, products = ?,
				reactant_species = ?, product_species = ?,
				notes = ?, image_path = ?, source_path = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			r.TableNo, r.TableCategory, r.DocReactionNo,
			r.ReactionName, r.FormulaLatex, r.FormulaCanonical,
			r.UUID, r.Reactants, r.Products,
			r.ReactantSpecies, r.ProductSpecies,
			r.Notes, r.ImagePath, r.SourcePath,
			r.ID,
		)
		if err != nil {
			return false, UpsertError("reactions", err)
		}
	}
	return created, nil
}

// UpsertMeasurement inserts or updates one measurement row.
func (s *iostore) UpsertMeasurement(
	ctx context.Context,
	m *schema.Measurement,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return NotConnectedError()
	}

	if m.ID == 0 {
		res, err := db.ExecContext(ctx, `
			INSERT INTO measurements
				(reaction_id, ph, temperature_c, rate_value, rate_value_num,
				 rate_units, method, conditions, reference_id, references_raw,
				 source_path, page_info)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ReactionID, m.PH, m.TemperatureC, m.RateValue, m.RateValueNum,
			m.RateUnits, m.Method, m.Conditions, m.ReferenceID, m.ReferencesRaw,
			m.SourcePath, m.PageInfo,
		)
		if err != nil {
			return UpsertError("measurements", err)
		}
		m.ID, err = res.LastInsertId()
		if err != nil {
			return UpsertError("measurements", err)
		}
		return nil
	}

	_, err := db.ExecContext(ctx, `
		UPDATE measurements SET
			reaction_id = ?, ph = ?, temperature_c = ?, rate_value = ?,
			rate_value_num = ?, rate_units = ?, method = ?, conditions = ?,
			reference_id = ?, references_raw = ?, source_path = ?,
			page_info = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		m.ReactionID, m.PH, m.TemperatureC, m.RateValue,
		m.RateValueNum, m.RateUnits, m.Method, m.Conditions,
		m.ReferenceID, m.ReferencesRaw, m.SourcePath,
		m.PageInfo, m.ID,
	)
	if err != nil {
		return UpsertError("measurements", err)
	}
	return nil
}

// UpsertReference inserts or updates a bibliography entry keyed by
// its (document_id, code) pair and returns its row id.
func (s *iostore) UpsertReference(
	ctx context.Context,
	ref *schema.Reference,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return 0, NotConnectedError()
	}

	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO references_map
			(document_id, code, citation_text, doi, doi_status, raw_text, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_id, code) DO UPDATE SET
			citation_text = excluded.citation_text,
			doi = excluded.doi,
			doi_status = excluded.doi_status,
			raw_text = excluded.raw_text,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		ref.DocumentID, ref.Code, ref.CitationText,
		ref.DOI, ref.DOIStatus, ref.RawText, ref.Notes,
	).Scan(&id)
	if err != nil {
		return 0, UpsertError("references_map", err)
	}
	ref.ID = id
	return id, nil
}

// ReplaceMeasurements swaps the full measurement set of one reaction
// in a single transaction.
func (s *iostore) ReplaceMeasurements(
	ctx context.Context,
	reactionID int64,
	ms []schema.Measurement,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return NotConnectedError()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertError("measurements", err)
	}
	defer tx.Rollback()

	if err = replaceMeasurementsTx(ctx, tx, reactionID, ms); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return UpsertError("measurements", err)
	}
	return nil
}

// replaceMeasurementsTx swaps the measurement set inside the caller's
// transaction.
func replaceMeasurementsTx(
	ctx context.Context,
	tx *sql.Tx,
	reactionID int64,
	ms []schema.Measurement,
) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM measurements WHERE reaction_id = ?", reactionID,
	); err != nil {
		return UpsertError("measurements", err)
	}

	for i := range ms {
		m := &ms[i]
		m.ReactionID = reactionID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO measurements
				(reaction_id, ph, temperature_c, rate_value, rate_value_num,
				 rate_units, method, conditions, reference_id, references_raw,
				 source_path, page_info)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ReactionID, m.PH, m.TemperatureC, m.RateValue, m.RateValueNum,
			m.RateUnits, m.Method, m.Conditions, m.ReferenceID, m.ReferencesRaw,
			m.SourcePath, m.PageInfo,
		)
		if err != nil {
			return UpsertError("measurements", err)
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return UpsertError("measurements", err)
		}
	}
	return nil
}

// UpsertReactionWithMeasurements writes a reaction and swaps its full
// measurement set in a single transaction. A crash can never leave a
// committed reaction with stale or missing measurements. Returns true
// when a new reaction row was created.
func (s *iostore) UpsertReactionWithMeasurements(
	ctx context.Context,
	r *schema.Reaction,
	ms []schema.Measurement,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return false, NotConnectedError()
	}

	if err := s.derive(r); err != nil {
		return false, UpsertError("reactions", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, UpsertError("reactions", err)
	}
	defer tx.Rollback()

	created, err := s.upsertReactionTx(ctx, tx, r)
	if err != nil {
		return false, err
	}
	if err = replaceMeasurementsTx(ctx, tx, r.ID, ms); err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, UpsertError("reactions", err)
	}
	return created, nil
}

// SetValidation marks a reaction validated or not. The by/at metadata
// moves with the flag: set on false→true, cleared on true→false.
// Setting the current value again is a no-op.
func (s *iostore) SetValidation(
	ctx context.Context,
	reactionID int64,
	validated bool,
	by string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return NotConnectedError()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ValidationError(reactionID, err)
	}
	defer tx.Rollback()

	var current bool
	err = tx.QueryRowContext(ctx,
		"SELECT validated FROM reactions WHERE id = ?", reactionID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return NotFoundError(reactionID)
	}
	if err != nil {
		return ValidationError(reactionID, err)
	}

	if current == validated {
		return tx.Commit()
	}

	if validated {
		_, err = tx.ExecContext(ctx, `
			UPDATE reactions SET
				validated = 1, validated_by = ?,
				validated_at = CURRENT_TIMESTAMP,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			by, reactionID,
		)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE reactions SET
				validated = 0, validated_by = NULL, validated_at = NULL,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			reactionID,
		)
	}
	if err != nil {
		return ValidationError(reactionID, err)
	}

	return tx.Commit()
}

// SetSkipped marks a reaction excluded from search and publication.
func (s *iostore) SetSkipped(
	ctx context.Context,
	reactionID int64,
	skipped bool,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.op.DB()
	if db == nil {
		return NotConnectedError()
	}

	res, err := db.ExecContext(ctx, `
		UPDATE reactions SET skipped = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		skipped, reactionID,
	)
	if err != nil {
		return ValidationError(reactionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ValidationError(reactionID, err)
	}
	if n == 0 {
		return NotFoundError(reactionID)
	}
	return nil
}
