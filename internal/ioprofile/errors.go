package ioprofile

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// DirError is returned when the directory for raw profiles cannot be
// created.
func DirError(dir string, err error) error {
	msg := "Cannot create profile directory <em>%s</em>"

	return &gn.Error{
		Code: errcode.ProfileDirError,
		Msg:  msg,
		Vars: []any{dir},
		Err:  fmt.Errorf("cannot create %s: %w", dir, err),
	}
}
