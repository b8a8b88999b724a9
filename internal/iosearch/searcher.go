// Package iosearch implements the read-only search service over the
// FTS5 index. Queries run against the live database; WAL mode keeps
// them from blocking on concurrent imports.
package iosearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/radreactions/rxndb/pkg/rxndb"
)

// DefaultLimit is the page size applied when a query does not set
// one.
const DefaultLimit = 50

// searcher implements the rxndb.Searcher interface.
type searcher struct {
	operator rxndb.Operator
}

// New creates a new Searcher.
func New(op rxndb.Operator) rxndb.Searcher {
	return &searcher{operator: op}
}

// Search runs a full-text query with optional filters and pagination.
// Skipped reactions never appear. Filters narrow the candidate set
// before ranking, so pagination walks the filtered ranking, not a
// filtered page.
func (s *searcher) Search(
	ctx context.Context,
	q rxndb.SearchQuery,
) (*rxndb.SearchResult, error) {
	db := s.operator.DB()
	if db == nil {
		return nil, NotConnectedError()
	}

	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var (
		conds []string
		args  []any
	)

	match := ftsQuery(q.Text)
	if match != "" {
		conds = append(conds, "reactions_fts MATCH ?")
		args = append(args, match)
	}
	conds = append(conds, "r.skipped = 0")
	if q.TableNo > 0 {
		conds = append(conds, "r.table_no = ?")
		args = append(args, q.TableNo)
	}
	if q.ValidatedOnly {
		conds = append(conds, "r.validated = 1")
	}
	where := strings.Join(conds, " AND ")

	var from, order string
	if match != "" {
		// bm25 returns lower-is-better scores.
		from = "reactions_fts JOIN reactions r ON r.id = reactions_fts.rowid"
		order = "ORDER BY bm25(reactions_fts), r.id"
	} else {
		// No query text: a plain filtered listing in creation order.
		from = "reactions r"
		order = "ORDER BY r.id"
	}

	res := rxndb.SearchResult{Query: q}

	countSQL := fmt.Sprintf(
		"SELECT count(*) FROM %s WHERE %s", from, where,
	)
	if err := db.QueryRowContext(ctx, countSQL, args...).
		Scan(&res.Total); err != nil {
		return nil, QueryError(q.Text, err)
	}

	var rank string
	if match != "" {
		rank = "bm25(reactions_fts)"
	} else {
		rank = "0"
	}

	querySQL := fmt.Sprintf(`
		SELECT r.id, r.table_no, r.doc_reaction_no, r.reaction_name,
			r.formula_latex, r.formula_canonical, r.validated, %s
		FROM %s WHERE %s %s LIMIT ? OFFSET ?`,
		rank, from, where, order,
	)
	args = append(args, q.Limit, q.Offset)

	rows, err := db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, QueryError(q.Text, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h rxndb.SearchHit
		err = rows.Scan(
			&h.ReactionID, &h.TableNo, &h.DocReactionNo, &h.ReactionName,
			&h.FormulaLatex, &h.FormulaCanonical, &h.Validated, &h.Rank,
		)
		if err != nil {
			return nil, QueryError(q.Text, err)
		}
		res.Hits = append(res.Hits, h)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(q.Text, err)
	}
	return &res, nil
}

// ftsQuery converts user text into a safe FTS5 MATCH expression.
// Chemical notation is full of characters FTS5 treats as syntax
// ("->", "^", "+", parens), so every token is wrapped in double
// quotes and joined as a conjunction.
func ftsQuery(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " ")
}
