// Package shell declares the objects preloaded into an interactive
// flasky shell session.
package shell

import (
	"github.com/gnames/flasky/pkg/schema"
	"gorm.io/gorm"
)

// Context is the statically declared set of shell bindings.
type Context struct {
	DB         *gorm.DB
	User       *schema.User
	Follow     *schema.Follow
	Role       *schema.Role
	Permission map[string]schema.Permission
	Post       *schema.Post
	Comment    *schema.Comment
}

// Names returns binding names in the order they are presented.
func Names() []string {
	return []string{"db", "User", "Follow", "Role", "Permission", "Post", "Comment"}
}

// New creates the shell context for a database handle.
func New(db *gorm.DB) Context {
	return Context{
		DB:         db,
		User:       &schema.User{},
		Follow:     &schema.Follow{},
		Role:       &schema.Role{},
		Permission: schema.Permissions,
		Post:       &schema.Post{},
		Comment:    &schema.Comment{},
	}
}

// Map converts the context to name-object bindings.
func (c Context) Map() map[string]any {
	return map[string]any{
		"db":         c.DB,
		"User":       c.User,
		"Follow":     c.Follow,
		"Role":       c.Role,
		"Permission": c.Permission,
		"Post":       c.Post,
		"Comment":    c.Comment,
	}
}

// Model returns the model bound to name if it maps to a table.
func (c Context) Model(name string) (any, bool) {
	switch name {
	case "User":
		return c.User, true
	case "Follow":
		return c.Follow, true
	case "Role":
		return c.Role, true
	case "Post":
		return c.Post, true
	case "Comment":
		return c.Comment, true
	default:
		return nil, false
	}
}

// MakeShellContext returns the bindings every shell session gets:
// db, User, Follow, Role, Permission, Post and Comment.
func MakeShellContext(db *gorm.DB) map[string]any {
	return New(db).Map()
}
