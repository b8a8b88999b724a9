package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// ConnectionError creates an error for when the database file cannot
// be opened.
func ConnectionError(path string, err error) error {
	msg := `Cannot open reaction database

<em>Database file:</em> %s

<em>Possible causes:</em>
  - Directory does not exist
  - Permission denied
  - File is not a SQLite database

<em>How to fix:</em>
  1. Check the directory: <em>ls -l %s</em>
  2. Initialize a new database: <em>rxndb create</em>`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open database %s: %w", path, err),
	}
}

// NotConnectedError creates an error for operations attempted before
// Connect.
func NotConnectedError() error {
	msg := `Database is not connected

<em>How to fix:</em>
  This is an internal sequencing problem, please report it.`

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("operation attempted on disconnected database"),
	}
}

// TableCheckError creates an error for when checking for tables
// fails.
func TableCheckError(err error) error {
	msg := `Cannot verify database state`

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// TableExistsCheckError creates an error for when a single-table
// existence check fails.
func TableExistsCheckError(tableName string, err error) error {
	msg := `Cannot check table <em>%s</em>`

	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", tableName, err),
	}
}

// ReplaceError creates an error for a failed atomic database swap.
func ReplaceError(livePath, newPath string, err error) error {
	msg := `Cannot swap in the rebuilt database

<em>Live database:</em> %s
<em>Rebuilt file:</em> %s

The live database was not modified.

<em>How to fix:</em>
  1. Check that both files are on the same filesystem
  2. Check directory permissions
  3. Re-run: <em>rxndb rebuild</em>`

	vars := []any{livePath, newPath}

	return &gn.Error{
		Code: errcode.DBReplaceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to replace %s with %s: %w", livePath, newPath, err),
	}
}
