package ioimport

import (
	"regexp"
	"strconv"
	"strings"
)

// Rate constants in the source tables are scientific notation with
// decades of typographic variation: "5.5 x 10^9", "5.5×10^9",
// "5.5 \times 10^{9}", "<10^7", "~2 x 10^8". The verbatim text is
// always stored; this parser additionally extracts a numeric value
// for sorting and range queries where it can.

var (
	sciRe = regexp.MustCompile(
		`^([0-9]+(?:\.[0-9]+)?)?\s*(?:x\s*)?10\^?\{?(-?[0-9]+)\}?$`)

	rateCleaner = strings.NewReplacer(
		`\times`, "x",
		"×", "x",
		"⋅", "x",
		"·", "x",
		"*", "x",
		"X", "x",
		",", "",
	)
)

// parseRate extracts a numeric rate from verbatim rate text.
// Returns false when the text carries no parseable number; the
// verbatim text is the source of truth either way.
func parseRate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	s = rateCleaner.Replace(s)

	// Comparison qualifiers keep their numeric part. "<10^7" still
	// sorts near 10^7, the verbatim text preserves the qualifier.
	s = strings.TrimLeft(s, "<>~≤≥≈= ")
	s = strings.TrimPrefix(s, "ca.")
	s = strings.TrimSpace(s)

	if m := sciRe.FindStringSubmatch(s); m != nil {
		mantissa := 1.0
		if m[1] != "" {
			var err error
			mantissa, err = strconv.ParseFloat(m[1], 64)
			if err != nil {
				return 0, false
			}
		}
		exp, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		return mantissa * pow10(exp), true
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	return 0, false
}

func pow10(exp int) float64 {
	res := 1.0
	if exp >= 0 {
		for i := 0; i < exp; i++ {
			res *= 10
		}
		return res
	}
	for i := 0; i < -exp; i++ {
		res /= 10
	}
	return res
}
