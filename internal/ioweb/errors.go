package ioweb

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// ServerError is returned when the HTTP server cannot start or stops
// unexpectedly.
func ServerError(addr string, err error) error {
	msg := `HTTP server on <em>%s</em> failed

<em>How to fix:</em>
  1. Check that no other process listens on the address
  2. Use <em>--port</em> or FLASKY_SERVER_PORT to pick another port`

	return &gn.Error{
		Code: errcode.ServerError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("server %s: %w", addr, err),
	}
}
