package ioimport

import (
	"context"
	"strings"

	"github.com/radreactions/rxndb/pkg/rxndb"
	"github.com/radreactions/rxndb/pkg/schema"
	"github.com/radreactions/rxndb/pkg/sources"
)

// Bibliography files carry up to three columns:
//
//	code | citation | doi
//
// Only the code is required. Codes are scoped to the document, so the
// same code in two documents stays two citations.
const referenceColumns = 3

// ImportReferences loads a document's bibliography file into the
// references_map table. Existing entries are refreshed in place, so
// re-running a bibliography import is idempotent. Returns the number
// of references written.
func ImportReferences(
	ctx context.Context,
	store rxndb.Store,
	doc sources.Document,
	path string,
	delimiter rune,
) (int, error) {
	rows, err := readReferencesFile(path, delimiter)
	if err != nil {
		return 0, err
	}

	var n int
	for _, ref := range rows {
		ref.DocumentID = doc.ID
		if _, err = store.UpsertReference(ctx, &ref); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func readReferencesFile(
	path string,
	delimiter rune,
) ([]schema.Reference, error) {
	records, err := readDelimited(path, delimiter)
	if err != nil {
		return nil, err
	}

	var refs []schema.Reference
	for i, rec := range records {
		if i == 0 && isReferenceHeader(rec) {
			continue
		}
		if len(rec) == 0 {
			continue
		}

		for len(rec) < referenceColumns {
			rec = append(rec, "")
		}

		code := strings.TrimSpace(rec[0])
		if code == "" {
			continue
		}
		refs = append(refs, schema.Reference{
			Code:         code,
			CitationText: strings.TrimSpace(rec[1]),
			DOI:          strings.TrimSpace(rec[2]),
			RawText:      strings.TrimSpace(strings.Join(rec, "\t")),
		})
	}
	return refs, nil
}

func isReferenceHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "code" || first == "ref" || first == "reference"
}
