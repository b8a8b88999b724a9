package iosources

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/pkg/errcode"
)

// SourcesConfigError creates an error for when sources.yaml
// cannot be loaded.
func SourcesConfigError(path string, err error) error {
	msg := `Cannot load sources configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Duplicate or missing table numbers

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. A default registry is generated on first run of <em>rxndb</em>`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.SourcesConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load sources config: %w", err),
	}
}

// DocumentError creates an error for when a registered document
// cannot be used, e.g. its table number is unknown.
func DocumentError(tableNo int, err error) error {
	msg := `Cannot resolve source document

<em>Table number:</em> %d

<em>How to fix:</em>
  1. Check registered documents in <em>sources.yaml</em>
  2. Run <em>rxndb stats</em> to see which tables exist`

	vars := []any{tableNo}

	return &gn.Error{
		Code: errcode.SourcesDocumentError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
