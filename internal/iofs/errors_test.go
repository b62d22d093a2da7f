package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"create dir", CreateDirError("/a/dir", cause), errcode.CreateDirError},
		{"write file", WriteFileError("/a/dir", cause), errcode.WriteFileError},
		{"read file", ReadFileError("/a/dir", cause), errcode.ReadFileError},
		{"dotenv", DotEnvError("/a/dir", cause), errcode.DotEnvError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, v.err, &gnErr)
			assert.Equal(t, v.code, gnErr.Code)
			assert.Equal(t, []any{"/a/dir"}, gnErr.Vars)
			assert.Contains(t, gnErr.Msg, "<em>%s</em>")
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), "TestErrors")
		})
	}
}

func TestErrors_Caller(t *testing.T) {
	_, err := ensureDir("/dev/null/flasky")
	require.Error(t, err)

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "iofs.ensureDir")
}
