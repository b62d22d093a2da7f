package ioseed

import (
	"fmt"

	"github.com/gnames/flasky/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError is returned when seeding is attempted without
// database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Seeding attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// RolesError is returned when canonical roles cannot be saved.
func RolesError(err error) error {
	msg := `Cannot insert roles

<em>How to fix:</em>
  1. Run <em>flasky db upgrade</em> to create the roles table
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SeedRolesError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to insert roles: %w", err),
	}
}

// SelfFollowsError is returned when self-follows cannot be created.
func SelfFollowsError(err error) error {
	msg := `Cannot add self-follows

<em>How to fix:</em>
  1. Run <em>flasky db upgrade</em> to create the follows table
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SeedSelfFollowsError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to add self-follows: %w", err),
	}
}
