package iosearch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// NotConnectedError creates an error for search attempted without a
// database connection.
func NotConnectedError() error {
	msg := `Search attempted without database connection

<em>How to fix:</em>
  1. Initialize the database first: <em>rxndb create</em>`

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// QueryError creates an error for a failed search query.
func QueryError(query string, err error) error {
	msg := `Search failed

<em>Query:</em> %s

<em>Possible causes:</em>
  - Database schema is outdated
  - Database file is corrupted

<em>How to fix:</em>
  1. Migrate the database: <em>rxndb create --force</em> and re-import
  2. Check logs for the failing statement`

	vars := []any{query}

	return &gn.Error{
		Code: errcode.SearchQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("search %q failed: %w", query, err),
	}
}
