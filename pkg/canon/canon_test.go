package canon_test

import (
	"testing"

	"github.com/radreactions/rxndb/pkg/canon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeDeterministic(t *testing.T) {
	inputs := []string{
		`OH + H2O2 -> H2O + HO2`,
		`$\ce{e^{-} + H2O -> H + OH^{-}}$`,
		`\ce{O_{2}^{.-} + O_{3} -> O_{3}^{.-} + O_{2}}`,
		``,
		`garbage without arrow`,
	}
	for _, in := range inputs {
		first := canon.Canonicalize(in)
		for range 5 {
			assert.Equal(t, first, canon.Canonicalize(in), in)
		}
	}
}

func TestOrderIndependenceWithinSide(t *testing.T) {
	tests := []struct {
		msg, a, b string
	}{
		{
			msg: "reactants reordered",
			a:   "OH + H2O2 -> H2O + HO2",
			b:   "H2O2 + OH -> H2O + HO2",
		},
		{
			msg: "both sides reordered",
			a:   "OH + H2O2 -> H2O + HO2",
			b:   "H2O2 + OH -> HO2 + H2O",
		},
		{
			msg: "latex markup vs plain",
			a:   `\ce{OH + H_{2}O_{2} -> H_{2}O + HO_{2}}`,
			b:   `$\ce{H_{2}O_{2} + OH -> HO_{2} + H_{2}O}$`,
		},
		{
			msg: "trailing radical dot before separator",
			a:   "OH• + H2O2 -> H2O + HO2",
			b:   "H2O2 + OH• -> H2O + HO2",
		},
	}

	for _, v := range tests {
		ra := canon.Canonicalize(v.a)
		rb := canon.Canonicalize(v.b)
		assert.Equal(t, ra.Key, rb.Key, v.msg)
	}
}

func TestArrowDirectionSignificant(t *testing.T) {
	fwd := canon.Canonicalize("OH + H2O2 -> H2O + HO2")
	rev := canon.Canonicalize("H2O + HO2 -> OH + H2O2")
	assert.NotEqual(t, fwd.Key, rev.Key)
}

func TestRadicalDotBeforeSeparator(t *testing.T) {
	// A species written with a trailing radical dot must not swallow
	// the following separator.
	res := canon.Canonicalize("OH• + H2O2 -> H2O + HO2")
	require.Len(t, res.Reactants, 2)
	assert.Equal(t,
		canon.Species{Formula: "OH", Coefficient: 1, Radical: true},
		res.Reactants[1])

	// A fused "•+" with no space stays a radical cation marker.
	fused := canon.Canonicalize("NH3•+ + OH^{-} -> NH3 + OH•")
	require.Len(t, fused.Reactants, 2)
	assert.Equal(t,
		canon.Species{Formula: "NH3", Coefficient: 1, Charge: 1, Radical: true},
		fused.Reactants[0])
}

func TestSpeciesParsing(t *testing.T) {
	tests := []struct {
		msg     string
		in      string
		side    string // "r" or "p"
		idx     int
		species canon.Species
	}{
		{
			msg:  "plain species",
			in:   "OH + H2O2 -> H2O + HO2",
			side: "r", idx: 1,
			species: canon.Species{Formula: "OH", Coefficient: 1},
		},
		{
			msg:  "coefficient",
			in:   "2OH -> H2O2",
			side: "r", idx: 0,
			species: canon.Species{Formula: "OH", Coefficient: 2},
		},
		{
			// Sides come back sorted: H2O orders before e.
			msg:  "negative charge",
			in:   `e^{-} + H2O -> H + OH^{-}`,
			side: "r", idx: 1,
			species: canon.Species{Formula: "e", Coefficient: 1, Charge: -1},
		},
		{
			msg:  "radical anion",
			in:   `\ce{O_{2}^{.-} + H -> HO_{2}^{-}}`,
			side: "r", idx: 1,
			species: canon.Species{
				Formula: "O_{2}", Coefficient: 1, Charge: -1, Radical: true,
			},
		},
		{
			msg:  "double charge",
			in:   `Cu^{2+} + e^{-} -> Cu^{+}`,
			side: "r", idx: 0,
			species: canon.Species{Formula: "Cu", Coefficient: 1, Charge: 2},
		},
		{
			msg:  "cdot radical",
			in:   `\cdot OH + CH_{3}OH -> H_{2}O + \cdot CH_{2}OH`,
			side: "r", idx: 1,
			species: canon.Species{Formula: "OH", Coefficient: 1, Radical: true},
		},
		{
			msg:  "unicode superscript charge",
			in:   "O₂⁻ + H⁺ -> HO₂",
			side: "r", idx: 1,
			species: canon.Species{
				Formula: "O_{2}", Coefficient: 1, Charge: -1,
			},
		},
	}

	for _, v := range tests {
		res := canon.Canonicalize(v.in)
		side := res.Reactants
		if v.side == "p" {
			side = res.Products
		}
		require.Greater(t, len(side), v.idx, v.msg)
		assert.Equal(t, v.species, side[v.idx], v.msg)
	}
}

func TestEmptySideMarker(t *testing.T) {
	tests := []struct {
		msg, in, key string
		degraded     bool
	}{
		{"no products", "OH + OH ->", "OH+OH->∅", true},
		{"no reactants", "-> H2O", "∅->H2O", true},
		{"no arrow", "just a name", "justaname->∅", true},
		{"empty input", "", "∅->∅", true},
		{"complete", "A -> B", "A->B", false},
	}

	for _, v := range tests {
		res := canon.Canonicalize(v.in)
		assert.Equal(t, v.key, res.Key, v.msg)
		assert.Equal(t, v.degraded, res.Degraded, v.msg)
	}
}

func TestUnknownCommandsPassThrough(t *testing.T) {
	res := canon.Canonicalize(`\ce{\gamma Fe_{2}O_{3} + OH -> products}`)
	require.Len(t, res.Reactants, 2)
	// Unknown macros are never dropped silently.
	assert.Equal(t, `\gammaFe_{2}O_{3}`, res.Reactants[1].Formula)
}

func TestOCRConfusableGlyphs(t *testing.T) {
	// U+2212 minus, U+00B7 middle dot and ASCII equivalents must
	// canonicalize identically.
	a := canon.Canonicalize(`O_{2}^{·−} + H -> HO_{2}^{−}`)
	b := canon.Canonicalize(`O_{2}^{.-} + H -> HO_{2}^{-}`)
	assert.Equal(t, a.Key, b.Key)
}

func TestCoefficientDoesNotChangeIdentity(t *testing.T) {
	one := canon.Canonicalize("2OH -> H2O2")
	two := canon.Canonicalize("OH -> H2O2")

	require.Len(t, one.Reactants, 1)
	require.Len(t, two.Reactants, 1)

	a, b := one.Reactants[0], two.Reactants[0]
	assert.Equal(t, a.Formula, b.Formula)
	assert.Equal(t, a.Charge, b.Charge)
	assert.Equal(t, a.Radical, b.Radical)
	assert.NotEqual(t, a.Coefficient, b.Coefficient)
	// Multiplicity still shows up in the key.
	assert.NotEqual(t, one.Key, two.Key)
}

func TestSpeciesString(t *testing.T) {
	tests := []struct {
		msg string
		sp  canon.Species
		res string
	}{
		{"plain", canon.Species{Formula: "OH", Coefficient: 1}, "OH"},
		{"coefficient", canon.Species{Formula: "OH", Coefficient: 2}, "2OH"},
		{
			"radical anion",
			canon.Species{Formula: "O_{2}", Coefficient: 1, Charge: -1, Radical: true},
			"O_{2}•^{-}",
		},
		{
			"double cation",
			canon.Species{Formula: "Cu", Coefficient: 1, Charge: 2},
			"Cu^{2+}",
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.sp.String(), v.msg)
	}
}
