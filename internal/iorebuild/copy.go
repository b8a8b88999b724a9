package iorebuild

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// copyRows streams a table from the live database into the artifact
// transaction, column for column. The FTS triggers on the artifact
// fire during the reactions copy, so the index is populated as a
// side effect.
func copyRows(
	ctx context.Context,
	live *sql.DB,
	tx *sql.Tx,
	table, whereSQL string,
) (int, error) {
	q := fmt.Sprintf("SELECT * FROM %s %s ORDER BY id", table, whereSQL)
	rows, err := live.QueryContext(ctx, q)
	if err != nil {
		return 0, BuildError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, BuildError(err)
	}

	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", len(cols)), ", ",
	)
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders,
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, BuildError(err)
	}
	defer stmt.Close()

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var n int
	for rows.Next() {
		if err = ctx.Err(); err != nil {
			return n, CancelledError(err)
		}
		if err = rows.Scan(ptrs...); err != nil {
			return n, BuildError(err)
		}
		if _, err = stmt.ExecContext(ctx, vals...); err != nil {
			return n, BuildError(err)
		}
		n++
	}
	if err = rows.Err(); err != nil {
		return n, BuildError(err)
	}
	return n, nil
}
