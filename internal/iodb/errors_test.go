package iodb_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/radreactions/rxndb/internal/iodb"
	"github.com/radreactions/rxndb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	originalErr := errors.New("disk I/O error")
	err := iodb.ConnectionError("/data/rxndb.sqlite", originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Equal(t, "/data/rxndb.sqlite", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestNotConnectedError(t *testing.T) {
	err := iodb.NotConnectedError()

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestReplaceError(t *testing.T) {
	originalErr := errors.New("cross-device link")
	err := iodb.ReplaceError("/data/live.sqlite", "/tmp/new.sqlite", originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBReplaceError, gnErr.Code)
	assert.Equal(t, "/data/live.sqlite", gnErr.Vars[0])
	assert.Equal(t, "/tmp/new.sqlite", gnErr.Vars[1])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
