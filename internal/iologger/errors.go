package iologger

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// OpenLogFileError is returned when the log file cannot be opened for
// appending.
func OpenLogFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.OpenLogFileError,
		Msg:  "Cannot open log file <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open log file %s: %w", path, err),
	}
}
