package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// NotConnectedError creates an error for storage operations attempted
// without a database connection.
func NotConnectedError() error {
	msg := "Storage operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// UpsertError creates an error for a failed write into a table.
func UpsertError(table string, err error) error {
	msg := `Cannot write to <em>%s</em>

<em>Possible causes:</em>
  - Database file is read-only
  - A foreign key points at a missing row
  - Disk is full

<em>How to fix:</em>
  1. Check file permissions on the database
  2. Check logs for the failing statement`

	vars := []any{table}

	return &gn.Error{
		Code: errcode.StoreUpsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to upsert into %s: %w", table, err),
	}
}

// NotFoundError creates an error for a reaction id with no row.
func NotFoundError(id int64) error {
	msg := `Reaction <em>%d</em> does not exist

<em>How to fix:</em>
  1. List reactions: <em>rxndb search --table N</em>
  2. Check the id and retry`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("reaction %d not found", id),
	}
}

// ValidationError creates an error for a failed validation update.
func ValidationError(id int64, err error) error {
	msg := `Cannot update validation state of reaction <em>%d</em>`

	vars := []any{id}

	return &gn.Error{
		Code: errcode.StoreValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to update validation of reaction %d: %w", id, err),
	}
}

// ListError creates an error for a failed read query.
func ListError(err error) error {
	msg := `Cannot read reactions from the database`

	return &gn.Error{
		Code: errcode.StoreListError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to read reactions: %w", err),
	}
}

// StatsError creates an error for failed statistics queries.
func StatsError(err error) error {
	msg := `Cannot compute database statistics`

	return &gn.Error{
		Code: errcode.StoreStatsError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to compute stats: %w", err),
	}
}

// SnapshotError creates an error for a failed snapshot export.
func SnapshotError(err error) error {
	msg := `Cannot export validated reactions

<em>Possible causes:</em>
  - Database is corrupted
  - Query interrupted

<em>How to fix:</em>
  1. Check database integrity: <em>rxndb rebuild</em>
  2. Retry the export`

	return &gn.Error{
		Code: errcode.StoreSnapshotError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to snapshot validated reactions: %w", err),
	}
}
