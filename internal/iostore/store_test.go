package iostore_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/radreactions/rxndb/internal/iostore"
	"github.com/radreactions/rxndb/internal/iotesting"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStoreImplementsInterface verifies compile-time contract
// compliance.
func TestStoreImplementsInterface(t *testing.T) {
	var _ rxndb.Store = iostore.New(nil)
}

func newStore(t *testing.T) (rxndb.Store, rxndb.Operator) {
	t.Helper()
	op, _ := iotesting.OpenTestDB(t)
	return iostore.New(op), op
}

func sampleReaction() *schema.Reaction {
	return &schema.Reaction{
		TableNo:       6,
		TableCategory: "OH radical reactions",
		DocReactionNo: "104",
		ReactionName:  "hydroxyl with hydrogen peroxide",
		FormulaLatex:  `\ce{OH + H_{2}O_{2} -> H_{2}O + HO_{2}}`,
		SourcePath:    "tables/table6.tsv",
	}
}

func TestUpsertReactionDerivesComputedColumns(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	created, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotZero(t, r.ID)

	// Canonical key, UUID and species columns were filled in.
	assert.Equal(t, "H_{2}O_{2}+OH->HO_{2}+H_{2}O", r.FormulaCanonical)
	assert.NotEmpty(t, r.UUID)
	assert.Contains(t, r.ReactantSpecies, "H_{2}O_{2}")

	// Same canonical key yields the same UUID every time.
	other := sampleReaction()
	other.DocReactionNo = "105"
	other.FormulaLatex = `\ce{H_{2}O_{2} + OH -> HO_{2} + H_{2}O}`
	_, err = store.UpsertReaction(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, r.UUID, other.UUID)
}

func TestUpsertReactionIdentityByDocNumber(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	created, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)
	require.True(t, created)

	// Same document number, corrected formula: the row is updated,
	// not duplicated, and the canonical key moves with the formula.
	again := sampleReaction()
	again.FormulaLatex = `\ce{OH + H_{2}O_{2} -> H_{2}O + HO_{2}^{-}}`
	created, err = store.UpsertReaction(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r.ID, again.ID)
	assert.Contains(t, again.FormulaCanonical, "HO_{2}^{-}")
}

func TestUpsertReactionIdentityByCanonicalKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	// Unnumbered table: identity falls back to (source, canonical).
	r := sampleReaction()
	r.DocReactionNo = ""
	created, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)
	require.True(t, created)

	again := sampleReaction()
	again.DocReactionNo = ""
	again.Notes = "checked against scan"
	created, err = store.UpsertReaction(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r.ID, again.ID)
}

func TestValidationTransitions(t *testing.T) {
	ctx := context.Background()
	store, op := newStore(t)

	r := sampleReaction()
	_, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)

	// false -> true records who and when.
	err = store.SetValidation(ctx, r.ID, true, "curator@example.org")
	require.NoError(t, err)

	var validated bool
	var by sql.NullString
	var at sql.NullTime
	err = op.DB().QueryRowContext(ctx,
		"SELECT validated, validated_by, validated_at FROM reactions WHERE id = ?",
		r.ID,
	).Scan(&validated, &by, &at)
	require.NoError(t, err)
	assert.True(t, validated)
	assert.Equal(t, "curator@example.org", by.String)
	assert.True(t, at.Valid)

	// true -> false clears the metadata.
	err = store.SetValidation(ctx, r.ID, false, "")
	require.NoError(t, err)

	err = op.DB().QueryRowContext(ctx,
		"SELECT validated, validated_by, validated_at FROM reactions WHERE id = ?",
		r.ID,
	).Scan(&validated, &by, &at)
	require.NoError(t, err)
	assert.False(t, validated)
	assert.False(t, by.Valid)
	assert.False(t, at.Valid)
}

func TestSetValidationMissingReaction(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	err := store.SetValidation(ctx, 9999, true, "nobody")
	assert.Error(t, err)
}

func TestSetSkipped(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	_, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)

	require.NoError(t, store.SetSkipped(ctx, r.ID, true))

	detail, err := store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, detail.Reaction.Skipped)

	assert.Error(t, store.SetSkipped(ctx, 9999, true))
}

func TestReplaceMeasurements(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	_, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)

	first := []schema.Measurement{
		{PH: "7", RateValue: "2.7 x 10^7", RateUnits: "L mol-1 s-1"},
		{PH: "10.7", RateValue: "1.1 x 10^7"},
	}
	require.NoError(t, store.ReplaceMeasurements(ctx, r.ID, first))

	second := []schema.Measurement{
		{PH: "~9", RateValue: "5.5 x 10^9"},
	}
	require.NoError(t, store.ReplaceMeasurements(ctx, r.ID, second))

	detail, err := store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, detail.Measurements, 1)
	assert.Equal(t, "5.5 x 10^9", detail.Measurements[0].RateValue)
}

func TestUpsertReactionWithMeasurementsIsAtomic(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	created, err := store.UpsertReactionWithMeasurements(ctx, r, []schema.Measurement{
		{PH: "7", RateValue: "2.7 x 10^7"},
		{PH: "10.7", RateValue: "1.1 x 10^7"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	detail, err := store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Measurements, 2)

	// A failing measurement write rolls the reaction write back too:
	// the dangling reference id violates the foreign key.
	bad := sampleReaction()
	bad.DocReactionNo = "105"
	bad.FormulaLatex = "e + H2O -> H + OH"
	_, err = store.UpsertReactionWithMeasurements(ctx, bad, []schema.Measurement{
		{ReferenceID: sql.NullInt64{Int64: 9999, Valid: true}},
	})
	require.Error(t, err)

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Reactions)
	assert.Equal(t, 2, st.Measurements)
}

func TestUpsertReferenceScopedToDocument(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	id1, err := store.UpsertReference(ctx, &schema.Reference{
		DocumentID: "buxton1988", Code: "66-0154",
		CitationText: "Thomas, J.K. 1965",
	})
	require.NoError(t, err)

	// Same code again updates in place.
	id2, err := store.UpsertReference(ctx, &schema.Reference{
		DocumentID: "buxton1988", Code: "66-0154",
		CitationText: "Thomas, J.K. Trans. Faraday Soc. 1965",
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// Same code in another document is a different reference.
	id3, err := store.UpsertReference(ctx, &schema.Reference{
		DocumentID: "ross1998", Code: "66-0154",
	})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestGetReactionDetailJoinsReferences(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	_, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)

	refID, err := store.UpsertReference(ctx, &schema.Reference{
		DocumentID: "buxton1988", Code: "84-0063",
	})
	require.NoError(t, err)

	ms := []schema.Measurement{{
		PH:          "7",
		RateValue:   "5.5 x 10^9",
		ReferenceID: sql.NullInt64{Int64: refID, Valid: true},
	}}
	require.NoError(t, store.ReplaceMeasurements(ctx, r.ID, ms))

	detail, err := store.GetReaction(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, detail.References, 1)
	assert.Equal(t, "84-0063", detail.References[0].Code)
}

func TestListByTable(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	for i := 0; i < 5; i++ {
		r := sampleReaction()
		r.DocReactionNo = ""
		// Distinct canonical keys so rows do not collapse.
		r.FormulaLatex = fmt.Sprintf("OH + C%dH%d -> products", i+1, 2*i+4)
		_, err := store.UpsertReaction(ctx, r)
		require.NoError(t, err)
	}

	page, err := store.ListByTable(ctx, 6, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.ListByTable(ctx, 6, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	none, err := store.ListByTable(ctx, 7, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	r := sampleReaction()
	_, err := store.UpsertReaction(ctx, r)
	require.NoError(t, err)

	other := sampleReaction()
	other.TableNo = 7
	other.DocReactionNo = "1"
	_, err = store.UpsertReaction(ctx, other)
	require.NoError(t, err)

	require.NoError(t, store.SetValidation(ctx, r.ID, true, "curator"))

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Reactions)
	assert.Equal(t, 1, st.Validated)
	assert.Equal(t, map[int]int{6: 1, 7: 1}, st.ByTable)
}

func TestSnapshotValidatedExcludesDraftsAndSkipped(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	validated := sampleReaction()
	_, err := store.UpsertReaction(ctx, validated)
	require.NoError(t, err)
	require.NoError(t, store.SetValidation(ctx, validated.ID, true, "curator"))

	draft := sampleReaction()
	draft.DocReactionNo = "105"
	draft.FormulaLatex = "e + H2O -> H + OH"
	_, err = store.UpsertReaction(ctx, draft)
	require.NoError(t, err)

	skipped := sampleReaction()
	skipped.DocReactionNo = "106"
	skipped.FormulaLatex = "H + H -> H2"
	_, err = store.UpsertReaction(ctx, skipped)
	require.NoError(t, err)
	require.NoError(t, store.SetValidation(ctx, skipped.ID, true, "curator"))
	require.NoError(t, store.SetSkipped(ctx, skipped.ID, true))

	snap, err := store.SnapshotValidated(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	require.Len(t, snap.Reactions, 1)
	assert.Equal(t, validated.ID, snap.Reactions[0].Reaction.ID)
}
