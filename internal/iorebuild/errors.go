package iorebuild

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// BuildError creates an error for a failure while building the
// rebuild artifact. The live database is untouched.
func BuildError(err error) error {
	msg := `Failed to build the rebuild artifact

The live database was not modified.

<em>Possible causes:</em>
  - No disk space in the database directory
  - The live database file is corrupted

<em>How to fix:</em>
  1. Check free space: <em>df -h</em>
  2. Check the live file: <em>sqlite3 rxndb.sqlite "PRAGMA integrity_check"</em>
  3. Re-run: <em>rxndb rebuild</em>`

	return &gn.Error{
		Code: errcode.RebuildBuildError,
		Msg:  msg,
		Err:  fmt.Errorf("rebuild failed: %w", err),
	}
}

// IntegrityError creates an error for a failed integrity check on
// the artifact. The swap is aborted and the live database keeps
// serving.
func IntegrityError(err error) error {
	msg := `Rebuild artifact failed integrity checks

The swap was aborted. The live database is untouched and keeps
serving queries.

<em>Failing check:</em> %v

<em>How to fix:</em>
  1. Inspect the failing records in the live database
  2. Fix or skip them, then re-run: <em>rxndb rebuild</em>`

	vars := []any{err}

	return &gn.Error{
		Code: errcode.RebuildIntegrityError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("integrity check failed: %w", err),
	}
}

// SwapError creates an error for a failed atomic swap. The artifact
// was valid but could not replace the live file.
func SwapError(err error) error {
	msg := `Failed to swap the rebuilt database into place

<em>Possible causes:</em>
  - The live database file is on a read-only filesystem
  - Another process holds the live file open exclusively

<em>How to fix:</em>
  1. Stop other processes using the database
  2. Re-run: <em>rxndb rebuild</em>`

	return &gn.Error{
		Code: errcode.RebuildSwapError,
		Msg:  msg,
		Err:  fmt.Errorf("swap failed: %w", err),
	}
}

// CancelledError creates an error for a rebuild interrupted by the
// user or a timeout.
func CancelledError(err error) error {
	msg := `Rebuild was cancelled

The partial artifact was removed and the live database is untouched.
Re-running the rebuild starts from scratch.`

	return &gn.Error{
		Code: errcode.RebuildCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("rebuild cancelled: %w", err),
	}
}
