package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "flasky_test", "postgres",
		originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 8)
	assert.Contains(t, gnErr.Err.Error(), "localhost:5432/flasky_test")
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestErrors_Codes(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		wrap bool
	}{
		{"gorm", GORMConnectionError(cause), errcode.DBGORMConnectionError, true},
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError, false},
		{"table check", TableCheckError(cause), errcode.DBTableCheckError, true},
		{"table exists", TableExistsCheckError("users", cause),
			errcode.DBTableExistsCheckError, true},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.NotEmpty(t, gnErr.Msg, v.msg)
		if v.wrap {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		}
	}
}

func TestNotConnected(t *testing.T) {
	op := NewPgxOperator()
	_, err := op.HasTables(t.Context())
	assert.Error(t, err)
	_, err = op.TableExists(t.Context(), "users")
	assert.Error(t, err)
	assert.Nil(t, op.GORM())
	assert.Nil(t, op.Pool())
	assert.NoError(t, op.Close())
}
