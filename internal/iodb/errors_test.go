package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/anu/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionError(t *testing.T) {
	orig := errors.New("connection refused")
	err := ConnectionError("localhost", 5432, "anu", "postgres", orig)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.Len(t, gnErr.Vars, 4)
	assert.ErrorIs(t, gnErr.Err, orig)
}

func TestNotConnectedError(t *testing.T) {
	gnErr, ok := NotConnectedError().(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestTableExistsCheckError(t *testing.T) {
	orig := errors.New("query failed")
	gnErr, ok := TableExistsCheckError("datasets", orig).(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBTableExistsCheckError, gnErr.Code)
	assert.Equal(t, "datasets", gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, orig)
}
