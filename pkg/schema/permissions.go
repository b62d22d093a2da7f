package schema

import (
	"slices"
	"strings"
)

// Permission is a bit flag stored in Role.Permissions.
type Permission int

const (
	PermFollow Permission = 1 << iota
	PermComment
	PermWrite
	PermModerate
	PermAdmin
)

// Permissions maps permission names to their flags.
var Permissions = map[string]Permission{
	"FOLLOW":   PermFollow,
	"COMMENT":  PermComment,
	"WRITE":    PermWrite,
	"MODERATE": PermModerate,
	"ADMIN":    PermAdmin,
}

// String lists names of all flags set in p, for example "FOLLOW|WRITE".
func (p Permission) String() string {
	var names []string
	for k, v := range Permissions {
		if p&v == v {
			names = append(names, k)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	slices.SortFunc(names, func(a, b string) int {
		return int(Permissions[a] - Permissions[b])
	})
	return strings.Join(names, "|")
}

// RoleSpec describes a canonical role.
type RoleSpec struct {
	Name        string
	Permissions []Permission
	Default     bool
}

// DefaultRoles returns canonical roles in the order they are seeded.
func DefaultRoles() []RoleSpec {
	return []RoleSpec{
		{
			Name:        "User",
			Permissions: []Permission{PermFollow, PermComment, PermWrite},
			Default:     true,
		},
		{
			Name: "Moderator",
			Permissions: []Permission{
				PermFollow, PermComment, PermWrite, PermModerate,
			},
		},
		{
			Name: "Administrator",
			Permissions: []Permission{
				PermFollow, PermComment, PermWrite, PermModerate, PermAdmin,
			},
		},
	}
}
