package ioimport_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/radreactions/rxndb/internal/ioimport"
	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/radreactions/rxndb/internal/iotesting"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
	"github.com/radreactions/rxndb/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImporterImplementsInterface verifies compile-time contract
// compliance.
func TestImporterImplementsInterface(t *testing.T) {
	var _ rxndb.Importer = ioimport.New(nil, nil, nil)
}

type fixture struct {
	cfg      *config.Config
	op       rxndb.Operator
	store    rxndb.Store
	importer rxndb.Importer
	doc      sources.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	op, cfg := iotesting.OpenTestDB(t)
	store := iostore.New(op)
	return &fixture{
		cfg:      cfg,
		op:       op,
		store:    store,
		importer: ioimport.New(cfg, op, store),
		doc: sources.Document{
			ID:       "buxton1988",
			TableNo:  6,
			Category: "OH radical reactions",
			Path:     "tables/table6.tsv",
			Numbered: true,
		},
	}
}

func sampleRows() []rxndb.SourceRow {
	return []rxndb.SourceRow{
		{
			Line:          2,
			DocReactionNo: "104",
			ReactionName:  "hydroxyl with hydrogen peroxide",
			FormulaLatex:  `\ce{OH + H_{2}O_{2} -> H_{2}O + HO_{2}}`,
			PH:            "7",
			RateValue:     "2.7 x 10^7",
			References:    "66-0154",
		},
		{
			Line:          3,
			DocReactionNo: "105",
			ReactionName:  "hydrated electron with water",
			FormulaLatex:  `\ce{e^{-} + H_{2}O -> H + OH^{-}}`,
			PH:            "8.4",
			RateValue:     "1.9 x 10^1",
		},
	}
}

func TestImportCreatesRows(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	report, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Unchanged)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, report.Measurements)
	assert.Equal(t, 2, report.Rows())

	// Rate constants were parsed alongside the verbatim text.
	r, err := fx.store.GetReactionByKey(ctx, 6, "104", "", "")
	require.NoError(t, err)
	require.NotNil(t, r)
	detail, err := fx.store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, detail.Measurements, 1)
	assert.Equal(t, "2.7 x 10^7", detail.Measurements[0].RateValue)
	assert.InEpsilon(t, 2.7e7, detail.Measurements[0].RateValueNum.Float64, 1e-9)
}

func TestReimportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	require.NoError(t, err)

	report, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	require.NoError(t, err)

	assert.Zero(t, report.Created)
	assert.Zero(t, report.Updated)
	assert.Equal(t, 2, report.Unchanged)

	st, err := fx.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Reactions)
	assert.Equal(t, 2, st.Measurements)
}

func TestReimportTextualFixSameCanonicalCountsUpdated(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	require.NoError(t, err)

	// Reordered reactants: the canonical key is identical, the raw
	// text is not. The correction must be visible in the report.
	rows := sampleRows()
	rows[0].FormulaLatex = `\ce{H_{2}O_{2} + OH -> H_{2}O + HO_{2}}`

	report, err := fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Unchanged)
	assert.Zero(t, report.Created)

	// No duplicate row appeared.
	st, err := fx.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Reactions)

	// Re-importing the corrected file is again a no-op.
	report, err = fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unchanged)
}

func TestUnnumberedTableFallsBackToCanonicalIdentity(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.doc.Numbered = false

	rows := sampleRows()
	_, err := fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)

	report, err := fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unchanged)

	st, err := fx.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Reactions)
}

func TestMalformedRowDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	rows := sampleRows()
	rows = append(rows[:1], append([]rxndb.SourceRow{
		{Line: 3, DocReactionNo: "bad", ReactionName: "no formula at all"},
	}, rows[1:]...)...)

	report, err := fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 3, report.Failures[0].Line)
	assert.Equal(t, "empty formula", report.Failures[0].Reason)
}

func TestReferenceResolution(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	// One code resolvable, one not.
	refID, err := fx.store.UpsertReference(ctx, &schema.Reference{
		DocumentID: "buxton1988", Code: "66-0154",
	})
	require.NoError(t, err)

	rows := sampleRows()
	rows[0].References = "66-0154; 99-9999"

	report, err := fx.importer.ImportRows(ctx, fx.doc, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RefsLinked)
	assert.Equal(t, 1, report.RefsUnresolved)

	r, err := fx.store.GetReactionByKey(ctx, 6, "104", "", "")
	require.NoError(t, err)
	detail, err := fx.store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, detail.Measurements, 1)

	m := detail.Measurements[0]
	require.True(t, m.ReferenceID.Valid)
	assert.Equal(t, refID, m.ReferenceID.Int64)
	// Unresolved codes survive verbatim for later linking.
	assert.Equal(t, "66-0154; 99-9999", m.ReferencesRaw)
}

func TestImportReferencesFile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	content := "code\tcitation\tdoi\n" +
		"66-0154\tSchwarz, J. Phys. Chem. 66 (1962)\t10.1021/j100812a021\n" +
		"68-0741\tAdams et al., Trans. Faraday Soc. 64 (1968)\t\n"

	path := filepath.Join(t.TempDir(), "references.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	n, err := ioimport.ImportReferences(ctx, fx.store, fx.doc, path, '\t')
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Loaded bibliography entries resolve during row import.
	report, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	require.NoError(t, err)
	assert.Equal(t, 1, report.RefsLinked)
	assert.Zero(t, report.RefsUnresolved)

	// Re-running the bibliography import stays idempotent.
	n, err = ioimport.ImportReferences(ctx, fx.store, fx.doc, path, '\t')
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	st, err := fx.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.References)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	content := "No\tReaction\tFormula\tpH\tRate\tComments\tReferences\n" +
		"104\thydroxyl with hydrogen peroxide\tOH + H2O2 -> H2O + HO2\t7\t2.7 x 10^7\t\t66-0154\n" +
		"105\thydrated electron with water\te- + H2O -> H + OH-\t8.4\t1.9 x 10^1\t\t\n"

	path := filepath.Join(t.TempDir(), "table6.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	report, err := fx.importer.ImportFile(ctx, fx.doc, path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, path, report.SourcePath)
}

func TestImportFileMissing(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	_, err := fx.importer.ImportFile(ctx, fx.doc, "no/such/file.tsv")
	assert.Error(t, err)
}

func TestImportCancelled(t *testing.T) {
	fx := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.importer.ImportRows(ctx, fx.doc, sampleRows())
	assert.Error(t, err)
}
