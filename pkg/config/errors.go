package config

import (
	"fmt"
	"strings"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// UnknownProfileError is returned when FLASK_CONFIG names a profile
// that does not exist.
func UnknownProfileError(name string, known []string) error {
	msg := "Unknown configuration profile <em>%s</em>, use one of: %s"
	vars := []any{name, strings.Join(known, ", ")}
	return &gn.Error{
		Code: errcode.UnknownProfileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown configuration profile %q", name),
	}
}
