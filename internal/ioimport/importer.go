// Package ioimport implements the idempotent import pipeline for
// transcribed source tables. This is an impure I/O package that reads
// delimited transcription files and writes through the storage layer.
package ioimport

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/radreactions/rxndb/pkg/canon"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
	"github.com/radreactions/rxndb/pkg/sources"
)

// importer implements the rxndb.Importer interface.
type importer struct {
	cfg      *config.Config
	operator rxndb.Operator
	store    rxndb.Store
}

// New creates a new Importer.
func New(
	cfg *config.Config,
	op rxndb.Operator,
	store rxndb.Store,
) rxndb.Importer {
	return &importer{cfg: cfg, operator: op, store: store}
}

// ImportFile reads a delimited transcription file for the given
// source document and imports its rows.
func (p *importer) ImportFile(
	ctx context.Context,
	doc sources.Document,
	path string,
) (*rxndb.ImportReport, error) {
	rows, err := readSourceFile(path, delimiterOf(doc, p.cfg))
	if err != nil {
		return nil, err
	}

	report, err := p.ImportRows(ctx, doc, rows)
	if err != nil {
		return nil, err
	}
	report.SourcePath = path
	return report, nil
}

// ImportRows imports already-parsed source rows for the given
// document. Row-local problems land in the report; only database
// failures abort the run.
func (p *importer) ImportRows(
	ctx context.Context,
	doc sources.Document,
	rows []rxndb.SourceRow,
) (*rxndb.ImportReport, error) {
	if p.operator.DB() == nil {
		return nil, NotConnectedError()
	}

	start := time.Now()
	report := &rxndb.ImportReport{
		SourcePath: doc.Path,
		TableNo:    doc.TableNo,
	}

	slog.Info("Starting import",
		"document", doc.ID,
		"table", doc.TableNo,
		"rows", len(rows),
	)

	bar := pb.Full.Start(len(rows))
	bar.Set("prefix", fmt.Sprintf("Importing table %d: ", doc.TableNo))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	batch := p.cfg.Database.BatchSize
	if batch <= 0 {
		batch = 500
	}

	for i, row := range rows {
		// Cancellation is honored between batches; rows already
		// written stay written, re-import is idempotent.
		if i%batch == 0 {
			select {
			case <-ctx.Done():
				return nil, CancelledError(doc.TableNo, ctx.Err())
			default:
			}
		}

		if err := p.importRow(ctx, doc, row, report); err != nil {
			return nil, err
		}
		bar.Add(1)
	}

	report.Duration = time.Since(start)
	slog.Info("Import finished",
		"document", doc.ID,
		"table", doc.TableNo,
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
	)
	if report.Failed > 0 {
		slog.Warn("Some rows failed to import",
			"table", doc.TableNo,
			"failed", humanize.Comma(int64(report.Failed)),
		)
	}
	return report, nil
}

// importRow processes one source row: resolve identity, write the
// reaction and its measurement, link references. A malformed row is
// recorded in the report and never aborts the batch.
func (p *importer) importRow(
	ctx context.Context,
	doc sources.Document,
	row rxndb.SourceRow,
	report *rxndb.ImportReport,
) error {
	if strings.TrimSpace(row.FormulaLatex) == "" {
		report.Failed++
		report.Failures = append(report.Failures, rxndb.RowFailure{
			Line:   row.Line,
			Reason: "empty formula",
			Raw:    row.ReactionName,
		})
		return nil
	}

	docNo := ""
	if doc.Numbered {
		docNo = strings.TrimSpace(row.DocReactionNo)
	}

	r := &schema.Reaction{
		TableNo:       doc.TableNo,
		TableCategory: doc.Category,
		DocReactionNo: docNo,
		ReactionName:  strings.TrimSpace(row.ReactionName),
		FormulaLatex:  strings.TrimSpace(row.FormulaLatex),
		Notes:         strings.TrimSpace(row.Comments),
		SourcePath:    doc.Path,
	}

	existing, err := p.lookupExisting(ctx, doc, r)
	if err != nil {
		return err
	}

	isUnchanged := existing != nil && unchanged(existing, r)
	if existing != nil {
		r.ID = existing.ID
	}

	m := schema.Measurement{
		PH:            strings.TrimSpace(row.PH),
		RateValue:     strings.TrimSpace(row.RateValue),
		RateUnits:     strings.TrimSpace(row.RateUnits),
		Method:        strings.TrimSpace(row.Method),
		Conditions:    strings.TrimSpace(row.Conditions),
		ReferencesRaw: strings.TrimSpace(row.References),
		SourcePath:    doc.Path,
		PageInfo:      strings.TrimSpace(row.PageInfo),
	}
	if v, ok := parseRate(m.RateValue); ok {
		m.RateValueNum = sql.NullFloat64{Float64: v, Valid: true}
	}

	linked, unresolved, refID := p.resolveReferences(ctx, doc, m.ReferencesRaw)
	report.RefsLinked += linked
	report.RefsUnresolved += unresolved
	if refID != 0 {
		m.ReferenceID = sql.NullInt64{Int64: refID, Valid: true}
	}

	// The reaction and its measurement commit or roll back together,
	// so a crash mid-import never leaves one without the other.
	created, err := p.store.UpsertReactionWithMeasurements(
		ctx, r, []schema.Measurement{m},
	)
	if err != nil {
		return err
	}

	switch {
	case isUnchanged:
		// The reaction text did not move, but the measurement was
		// still refreshed so a rate-only correction lands.
		report.Unchanged++
	case created:
		report.Created++
	default:
		// Any textual correction counts, even when the canonical
		// key stays put: the report audits transcription fixes.
		report.Updated++
	}
	report.Measurements++
	return nil
}

// lookupExisting loads the row the source row would resolve to, with
// the canonical key derived the same way the store derives it.
func (p *importer) lookupExisting(
	ctx context.Context,
	doc sources.Document,
	r *schema.Reaction,
) (*schema.Reaction, error) {
	canonical := canonicalKey(r.FormulaLatex)
	return p.store.GetReactionByKey(
		ctx, doc.TableNo, r.DocReactionNo, doc.Path, canonical,
	)
}

// unchanged reports whether a re-imported row carries no textual
// change against the stored one.
func unchanged(existing, incoming *schema.Reaction) bool {
	return existing.FormulaLatex == incoming.FormulaLatex &&
		existing.ReactionName == incoming.ReactionName &&
		existing.Notes == incoming.Notes
}

// resolveReferences matches reference codes against the bibliography
// of the document. Unresolved codes stay in references_raw for later
// linking; the first resolved code becomes the measurement link.
func (p *importer) resolveReferences(
	ctx context.Context,
	doc sources.Document,
	raw string,
) (linked, unresolved int, refID int64) {
	if raw == "" {
		return 0, 0, 0
	}

	db := p.operator.DB()
	for _, code := range splitCodes(raw) {
		var id int64
		err := db.QueryRowContext(ctx,
			"SELECT id FROM references_map WHERE document_id = ? AND code = ?",
			doc.ID, code,
		).Scan(&id)
		if err != nil {
			unresolved++
			continue
		}
		linked++
		if refID == 0 {
			refID = id
		}
	}
	return linked, unresolved, refID
}

func canonicalKey(formula string) string {
	return canon.Canonicalize(formula).Key
}

func splitCodes(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	var codes []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			codes = append(codes, f)
		}
	}
	return codes
}
