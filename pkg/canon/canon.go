// Package canon converts transcribed chemical formula text into a
// canonical comparison key and a parsed species list.
//
// The input is LaTeX-flavored text as it appears in digitized kinetics
// tables: math-mode delimiters, mhchem \ce{...} wrappers, sub- and
// superscript markup, radical dots and charge superscripts, plus the
// usual OCR artifacts (Unicode minus signs, superscript glyphs).
//
// Canonicalize is pure and total: any input produces a deterministic
// result, degraded when a side is empty or unparseable, never an error.
// Text the parser does not understand passes through verbatim into the
// species base symbol so no transcribed information is destroyed.
package canon

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// EmptySide marks a reaction side with no parseable species.
// Partially transcribed reactions keep deterministic keys and can be
// found for review by searching for this marker.
const EmptySide = "∅"

// Species is one chemical entity on one side of a reaction.
// Two species are identical when Formula, Charge and Radical all match;
// Coefficient expresses multiplicity only.
type Species struct {
	// Formula is the base symbol sequence with subscripts preserved in
	// braced form, e.g. "H_{2}O_{2}".
	Formula string

	// Coefficient is the stoichiometric coefficient, 1 when absent.
	Coefficient int

	// Charge is the net charge, 0 when absent.
	Charge int

	// Radical is true when the species carries a radical dot.
	Radical bool
}

// Result is the outcome of canonicalization.
type Result struct {
	// Key is the canonical comparison key: both sides normalized,
	// species sorted within each side, whitespace removed.
	// Reversing reactants and products yields a different key.
	Key string

	// Reactants and Products are the parsed species in canonical order.
	Reactants []Species
	Products  []Species

	// Degraded is true when a side was empty or no species parsed.
	// It flags the reaction for human follow-up, it is not an error.
	Degraded bool
}

var (
	arrowRe  = regexp.MustCompile(`\\(longrightarrow|rightarrow|to)\b`)
	supRe    = regexp.MustCompile(`\^\{([^}]*)\}|\^([A-Za-z0-9+\-.•]+)`)
	subRe    = regexp.MustCompile(`_\{([^}]*)\}|_([A-Za-z0-9+\-.]+)`)
	spacesRe = regexp.MustCompile(`\s+`)
	chargeRe = regexp.MustCompile(`^(\d*)([+-])$`)
	coeffRe  = regexp.MustCompile(`^(\d+)\s*`)

	// OCR-confusable glyph runs that encode super/subscripts directly.
	unicodeSupRe = regexp.MustCompile(`[⁰¹²³⁴⁵⁶⁷⁸⁹⁺⁻]+`)
	unicodeSubRe = regexp.MustCompile(`[₀₁₂₃₄₅₆₇₈₉]+`)
)

var glyphNormalizer = strings.NewReplacer(
	"−", "-", // U+2212 minus
	"–", "-", // U+2013 en dash
	"·", "•", // U+00B7 middle dot
	"∙", "•", // U+2219 bullet operator
	`\cdot`, "•",
	`\bullet`, "•",
)

var supGlyphs = map[rune]string{
	'⁰': "0", '¹': "1", '²': "2", '³': "3", '⁴': "4",
	'⁵': "5", '⁶': "6", '⁷': "7", '⁸': "8", '⁹': "9",
	'⁺': "+", '⁻': "-",
}

var subGlyphs = map[rune]string{
	'₀': "0", '₁': "1", '₂': "2", '₃': "3", '₄': "4",
	'₅': "5", '₆': "6", '₇': "7", '₈': "8", '₉': "9",
}

// Canonicalize maps raw formula text to its canonical key and parsed
// species. Repeated calls with the same input yield identical output.
func Canonicalize(raw string) Result {
	core := stripMath(raw)
	if payload, ok := cePayload(core); ok {
		core = payload
	}

	core = glyphNormalizer.Replace(core)
	core = unicodeSupRe.ReplaceAllStringFunc(core, func(m string) string {
		return "^{" + mapRunes(m, supGlyphs) + "}"
	})
	core = unicodeSubRe.ReplaceAllStringFunc(core, func(m string) string {
		return "_{" + mapRunes(m, subGlyphs) + "}"
	})

	core = arrowRe.ReplaceAllString(core, "->")
	core = strings.ReplaceAll(core, "→", "->")
	core = strings.ReplaceAll(core, "⟶", "->")

	// Always-braced sub/superscripts so later parsing sees one shape.
	core = supRe.ReplaceAllString(core, "^{$1$2}")
	core = subRe.ReplaceAllString(core, "_{$1$2}")
	core = spacesRe.ReplaceAllString(core, " ")
	core = strings.TrimSpace(core)

	lhs, rhs, _ := strings.Cut(core, "->")

	reactants := parseSide(lhs)
	products := parseSide(rhs)

	sortSide(reactants)
	sortSide(products)

	res := Result{
		Key:       sideKey(reactants) + "->" + sideKey(products),
		Reactants: reactants,
		Products:  products,
		Degraded:  len(reactants) == 0 || len(products) == 0,
	}
	return res
}

// stripMath removes outer math-mode delimiters if present.
func stripMath(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case len(s) > 1 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$"):
		return s[1 : len(s)-1]
	case strings.HasPrefix(s, `\(`) && strings.HasSuffix(s, `\)`):
		return s[2 : len(s)-2]
	case strings.HasPrefix(s, `\[`) && strings.HasSuffix(s, `\]`):
		return s[2 : len(s)-2]
	}
	return s
}

// cePayload extracts the payload of the first \ce{...} block,
// honoring nested braces and escaped characters. mhchem markup may
// contain nested groups, so a naive regexp is not enough.
func cePayload(s string) (string, bool) {
	start := strings.Index(s, `\ce{`)
	if start == -1 {
		return "", false
	}
	i := start + 4
	depth := 1
	j := i
	for j < len(s) && depth > 0 {
		switch s[j] {
		case '\\':
			j += 2
			continue
		case '{':
			depth++
		case '}':
			depth--
		}
		j++
	}
	if depth == 0 {
		return s[i : j-1], true
	}
	// Unbalanced braces: take everything after the opening brace.
	return s[i:], true
}

// parseSide splits one reaction side into species. The split happens
// on '+' at brace depth zero; a '+' immediately following '•' or '^'
// is a fused charge marker, not a separator.
func parseSide(side string) []Species {
	side = strings.TrimSpace(side)
	if side == "" {
		return nil
	}

	var tokens []string
	var depth int
	var prev rune
	start := 0
	for i, r := range side {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '+':
			if depth == 0 && prev != '•' && prev != '^' {
				tokens = append(tokens, side[start:i])
				start = i + 1
			}
		}
		// prev keeps spaces: "OH• + X" splits, a fused "OH•+" does not.
		prev = r
	}
	tokens = append(tokens, side[start:])

	var res []Species
	for _, tok := range tokens {
		if sp, ok := parseSpecies(tok); ok {
			res = append(res, sp)
		}
	}
	return res
}

// parseSpecies extracts coefficient, base formula, radical flag and
// net charge from one species token.
func parseSpecies(tok string) (Species, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Species{}, false
	}

	sp := Species{Coefficient: 1}

	if m := coeffRe.FindStringSubmatch(tok); m != nil && len(m[0]) < len(tok) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			sp.Coefficient = n
			tok = tok[len(m[0]):]
		}
	}

	// Superscript groups carry charge and radical dots. Groups that are
	// not pure charge notation stay in the base symbol verbatim.
	tok = supRe.ReplaceAllStringFunc(tok, func(m string) string {
		content := supRe.FindStringSubmatch(m)
		inner := content[1] + content[2]
		if strings.Contains(inner, ".") || strings.Contains(inner, "•") {
			sp.Radical = true
			inner = strings.NewReplacer(".", "", "•", "").Replace(inner)
		}
		if inner == "" {
			return ""
		}
		if c := chargeRe.FindStringSubmatch(inner); c != nil {
			n := 1
			if c[1] != "" {
				n, _ = strconv.Atoi(c[1])
			}
			if c[2] == "-" {
				n = -n
			}
			sp.Charge += n
			return ""
		}
		return "^{" + inner + "}"
	})

	// Radical dots outside superscripts, possibly fused with a charge
	// sign ("•-", "•+").
	for _, fused := range []struct {
		marker string
		charge int
	}{{"•-", -1}, {"•+", 1}, {"•", 0}} {
		if strings.Contains(tok, fused.marker) {
			tok = strings.ReplaceAll(tok, fused.marker, "")
			sp.Radical = true
			sp.Charge += fused.charge
			break
		}
	}

	sp.Formula = spacesRe.ReplaceAllString(strings.TrimSpace(tok), "")
	if sp.Formula == "" && !sp.Radical && sp.Charge == 0 {
		return Species{}, false
	}
	return sp, true
}

// sortSide orders species by (formula, charge, radical) so that
// textual reordering of additive terms yields the same canonical key.
// Sides are never reordered relative to each other.
func sortSide(side []Species) {
	slices.SortStableFunc(side, func(a, b Species) int {
		if c := strings.Compare(a.Formula, b.Formula); c != 0 {
			return c
		}
		if a.Charge != b.Charge {
			return a.Charge - b.Charge
		}
		switch {
		case a.Radical == b.Radical:
			return 0
		case b.Radical:
			return -1
		default:
			return 1
		}
	})
}

// sideKey renders one sorted side as its whitespace-free string form.
func sideKey(side []Species) string {
	if len(side) == 0 {
		return EmptySide
	}
	parts := make([]string, len(side))
	for i, sp := range side {
		parts[i] = sp.String()
	}
	return strings.Join(parts, "+")
}

// String renders the species in canonical text form:
// coefficient, base formula, radical dot, charge superscript.
func (sp Species) String() string {
	var b strings.Builder
	if sp.Coefficient > 1 {
		b.WriteString(strconv.Itoa(sp.Coefficient))
	}
	b.WriteString(sp.Formula)
	if sp.Radical {
		b.WriteString("•")
	}
	if sp.Charge != 0 {
		b.WriteString("^{")
		n := sp.Charge
		sign := "+"
		if n < 0 {
			sign = "-"
			n = -n
		}
		if n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
		b.WriteString(sign)
		b.WriteString("}")
	}
	return b.String()
}

func mapRunes(s string, m map[rune]string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(m[r])
	}
	return b.String()
}
