package ioimport

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/sources"
)

// Transcription files carry seven columns in the layout of the
// digitized tables:
//
//	no | reaction name | formula | pH | rate value | comments | references
//
// Short rows are padded with empty fields so partially transcribed
// lines import instead of failing.
const sourceColumns = 7

func delimiterOf(doc sources.Document, cfg *config.Config) rune {
	name := doc.Delimiter
	if name == "" {
		name = cfg.Import.Delimiter
	}
	if name == "comma" {
		return ','
	}
	return '\t'
}

// readDelimited reads a whole delimited file into records. Rows may
// have any number of fields; callers pad short rows.
func readDelimited(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SourceReadError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, SourceReadError(path, err)
	}
	return records, nil
}

// readSourceFile parses a delimited transcription file into source
// rows. A header line is detected by its first field and skipped.
func readSourceFile(path string, delimiter rune) ([]rxndb.SourceRow, error) {
	records, err := readDelimited(path, delimiter)
	if err != nil {
		return nil, err
	}

	var rows []rxndb.SourceRow
	for i, rec := range records {
		line := i + 1
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) == 0 {
			continue
		}

		for len(rec) < sourceColumns {
			rec = append(rec, "")
		}

		rows = append(rows, rxndb.SourceRow{
			Line:          line,
			DocReactionNo: strings.TrimSpace(rec[0]),
			ReactionName:  strings.TrimSpace(rec[1]),
			FormulaLatex:  strings.TrimSpace(rec[2]),
			PH:            strings.TrimSpace(rec[3]),
			RateValue:     strings.TrimSpace(rec[4]),
			Comments:      strings.TrimSpace(rec[5]),
			References:    strings.TrimSpace(rec[6]),
		})
	}
	return rows, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "no" || first == "no." || first == "number" ||
		first == "#" || first == "id"
}
