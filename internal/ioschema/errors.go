package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// NotConnectedError creates an error for when a schema operation is
// attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// SchemaExistsError creates an error for when schema creation finds
// an already initialized database.
func SchemaExistsError(path string) error {
	msg := `Database is already initialized

<em>Database file:</em> %s

<em>How to fix:</em>
  1. Use the existing database as is, or
  2. Recreate it from scratch: <em>rxndb create --force</em>
     (this deletes all existing data)`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("database %s already has tables", path),
	}
}

// CreateSchemaError creates an error for schema creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

<em>Possible causes:</em>
  - Directory is not writable
  - Invalid schema definitions
  - Database file is corrupted

<em>How to fix:</em>
  1. Check directory permissions
  2. Check logs for the failing statement`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for schema migration failures.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate database schema

<em>Possible causes:</em>
  - Database was never initialized
  - Incompatible schema changes

<em>How to fix:</em>
  1. Initialize a new database: <em>rxndb create</em>
  2. Back up the file before migrating`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}
