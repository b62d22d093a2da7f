package ioshell_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gnames/flasky/internal/ioschema"
	"github.com/gnames/flasky/internal/ioshell"
	"github.com/gnames/flasky/internal/iotesting"
	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/flasky/pkg/schema"
	"github.com/gnames/flasky/pkg/shell"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, sc shell.Context, input string) string {
	t.Helper()
	var out bytes.Buffer
	sh := ioshell.New(sc, strings.NewReader(input), &out)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestRunSession(t *testing.T) {
	assert := assert.New(t)
	out := run(t, shell.New(nil), "help\nnames\nPermission\nbogus\nexit\nnames\n")

	assert.Contains(out, "Shell context: db, User, Follow, Role, Permission, Post, Comment")
	assert.Contains(out, "count <Name>")
	assert.Contains(out, "*schema.User")
	assert.Contains(out, "MODERATE    8")
	assert.Contains(out, `error: unknown name "bogus"`)

	// nothing runs after exit
	assert.Equal(1, strings.Count(out, "*schema.Comment"))
}

func TestRunEOF(t *testing.T) {
	out := run(t, shell.New(nil), "names")
	assert.True(t, strings.HasSuffix(out, ioshell.Prompt+"\n"))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := ioshell.New(shell.New(nil), strings.NewReader("names\n"), &out)
	assert.NoError(t, sh.Run(ctx))
}

func TestRunCanceledWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	sh := ioshell.New(shell.New(nil), pr, &out)

	errc := make(chan error, 1)
	go func() { errc <- sh.Run(ctx) }()

	_, err := pw.Write([]byte("help\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after cancellation")
	}
}

func TestExec(t *testing.T) {
	sh := ioshell.New(shell.New(nil), strings.NewReader(""), &bytes.Buffer{})
	ctx := context.Background()

	tests := []struct {
		line string
		done bool
		code gn.ErrorCode
	}{
		{"", false, 0},
		{"   ", false, 0},
		{"quit", true, 0},
		{"exit now", true, 0},
		{"count", false, errcode.ShellUnknownNameError},
		{"count Nope", false, errcode.ShellUnknownNameError},
		{"count Permission", false, errcode.ShellUnknownNameError},
		{"count User", false, errcode.ShellQueryError},
		{"first Post", false, errcode.ShellQueryError},
	}

	for _, v := range tests {
		t.Run(v.line, func(t *testing.T) {
			done, err := sh.Exec(ctx, v.line)
			assert.Equal(t, v.done, done)
			if v.code == 0 {
				assert.NoError(t, err)
				return
			}
			var gnErr *gn.Error
			require.True(t, errors.As(err, &gnErr))
			assert.Equal(t, v.code, gnErr.Code)
		})
	}
}

func TestQueriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	assert := assert.New(t)
	op := iotesting.Connect(t)
	iotesting.DropAllTables(t, op)
	_, err := ioschema.NewManager(op).Upgrade(context.Background())
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, op.GORM().Create(&schema.User{
			Email:    fmt.Sprintf("u%d@example.com", i),
			Username: fmt.Sprintf("u%d", i),
		}).Error)
	}

	out := run(t, shell.New(op.GORM()), "count User\nfirst User\nfirst Post\n")
	assert.Contains(out, ">>> 3\n")
	assert.Contains(out, `"username": "u0"`)
	assert.Contains(out, ">>> null\n")
}
