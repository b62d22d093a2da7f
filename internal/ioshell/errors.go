package ioshell

import (
	"errors"
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

var errNoDB = errors.New("no database connection")

// UnknownNameError is returned for names outside of the shell context.
func UnknownNameError(name string) error {
	return &gn.Error{
		Code: errcode.ShellUnknownNameError,
		Msg:  "Unknown name <em>%s</em>, try \"help\"",
		Vars: []any{name},
		Err:  fmt.Errorf("unknown name %q", name),
	}
}

// QueryError is returned when a model cannot be queried.
func QueryError(model string, err error) error {
	return &gn.Error{
		Code: errcode.ShellQueryError,
		Msg:  "Cannot query <em>%s</em>",
		Vars: []any{model},
		Err:  fmt.Errorf("query %s: %w", model, err),
	}
}

func errText(err error) string {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Err != nil {
		return gnErr.Err.Error()
	}
	return err.Error()
}
