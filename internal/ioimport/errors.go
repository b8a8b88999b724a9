package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// NotConnectedError creates an error for import attempted without a
// database connection.
func NotConnectedError() error {
	msg := `Import attempted without database connection

<em>How to fix:</em>
  1. Initialize the database first: <em>rxndb create</em>`

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// SourceReadError creates an error for an unreadable transcription
// file.
func SourceReadError(path string, err error) error {
	msg := `Cannot read transcription file

<em>File:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Wrong delimiter for the file format
  - Permission denied

<em>How to fix:</em>
  1. Check the file: <em>ls -l %s</em>
  2. Check the delimiter in <em>sources.yaml</em>`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.ImportSourceReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read source file %s: %w", path, err),
	}
}

// CancelledError creates an error for an import interrupted by the
// caller.
func CancelledError(tableNo int, err error) error {
	msg := `Import of table <em>%d</em> was cancelled

Rows imported before cancellation stay in the database,
re-running the import is safe and will not duplicate them.`

	vars := []any{tableNo}

	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("import of table %d cancelled: %w", tableNo, err),
	}
}

// AllDocumentsFailedError creates an error for an import run in which
// no document could be processed.
func AllDocumentsFailedError(count int) error {
	msg := `All <em>%d</em> documents failed to import

<em>How to fix:</em>
  1. Check the log for per-document errors
  2. Check paths in <em>sources.yaml</em>`

	vars := []any{count}

	return &gn.Error{
		Code: errcode.ImportAllDocumentsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d documents failed to import", count),
	}
}
