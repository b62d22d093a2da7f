// Package schema provides database models of the flasky web application.
// Table layouts are defined by the SQL revisions in migrations/, the
// models only map those tables for GORM.
package schema

import (
	"time"
)

// Role groups permissions granted to users.
type Role struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Name is unique, for example "Moderator".
	Name string `gorm:"size:64;uniqueIndex" json:"name"`

	// Default is true for the role given to newly registered users.
	// Only one role is expected to be the default.
	Default bool `gorm:"column:default;index;not null;default:false" json:"default"`

	// Permissions is a bit set of Permission flags.
	Permissions Permission `gorm:"not null;default:0" json:"permissions"`

	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}

// TableName sets the table name for GORM.
func (Role) TableName() string { return "roles" }

// HasPermission reports whether all bits of perm are granted.
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

// AddPermission grants perm to the role.
func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.Permissions |= perm
	}
}

// RemovePermission revokes perm from the role.
func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.Permissions &^= perm
	}
}

// ResetPermissions revokes all permissions.
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

// Follow is a directed "follower follows followed" relationship.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"followed_id"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}

// TableName sets the table name for GORM.
func (Follow) TableName() string { return "follows" }

// IsSelfFollow reports whether the relationship points back to the
// follower.
func (f Follow) IsSelfFollow() bool {
	return f.FollowerID == f.FollowedID
}

// Post is a blog post written by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text" json:"body"`
	BodyHTML  string    `gorm:"column:body_html;type:text" json:"body_html,omitempty"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	AuthorID  uint      `json:"author_id"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// TableName sets the table name for GORM.
func (Post) TableName() string { return "posts" }

// Comment is a reader's comment on a post. Moderators may disable it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text" json:"body"`
	BodyHTML  string    `gorm:"column:body_html;type:text" json:"body_html,omitempty"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	AuthorID  uint      `json:"author_id"`
	PostID    uint      `json:"post_id"`
}

// TableName sets the table name for GORM.
func (Comment) TableName() string { return "comments" }

// SchemaVersion tracks applied schema migrations.
type SchemaVersion struct {
	Version     string    `gorm:"primaryKey;size:32" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName sets the table name for GORM.
func (SchemaVersion) TableName() string { return "schema_versions" }
