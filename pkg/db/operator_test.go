package db_test

import (
	"testing"

	"github.com/gnames/anu/internal/iodb"
	"github.com/gnames/anu/pkg/db"
	"github.com/stretchr/testify/assert"
)

func TestNewOperator(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.Nil(t, op.Pool())
	assert.NoError(t, op.Close())
}
