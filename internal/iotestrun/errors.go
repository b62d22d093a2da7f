package iotestrun

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// RunError is returned when a child process cannot be started.
func RunError(name string, err error) error {
	msg := `Cannot run <em>%s</em>

<em>How to fix:</em>
  1. Make sure the Go toolchain is installed and in PATH`

	return &gn.Error{
		Code: errcode.TestRunError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("cannot run %s: %w", name, err),
	}
}

// CoverageError is returned when the coverage report cannot be made.
func CoverageError(path string, err error) error {
	msg := "Cannot create coverage report <em>%s</em>"

	return &gn.Error{
		Code: errcode.CoverageReportError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("coverage report %s: %w", path, err),
	}
}
