package schema

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a registered account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:64;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:64;uniqueIndex" json:"username"`
	RoleID       *uint     `json:"role_id,omitempty"`
	Role         *Role     `json:"role,omitempty"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	Confirmed    bool      `gorm:"not null;default:false" json:"confirmed"`
	Name         string    `gorm:"size:64" json:"name,omitempty"`
	Location     string    `gorm:"size:64" json:"location,omitempty"`
	AboutMe      string    `gorm:"type:text" json:"about_me,omitempty"`
	MemberSince  time.Time `gorm:"not null" json:"member_since"`
	LastSeen     time.Time `gorm:"not null" json:"last_seen"`
	AvatarHash   string    `gorm:"size:32" json:"avatar_hash,omitempty"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName sets the table name for GORM.
func (User) TableName() string { return "users" }

// BeforeCreate fills timestamps and the avatar hash of new users.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	now := time.Now().UTC()
	if u.MemberSince.IsZero() {
		u.MemberSince = now
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = now
	}
	if u.AvatarHash == "" && u.Email != "" {
		u.AvatarHash = AvatarHash(u.Email)
	}
	return nil
}

// SetPassword stores a bcrypt hash of the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword(
		[]byte(password), bcrypt.DefaultCost,
	)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks the password against the stored hash.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword(
		[]byte(u.PasswordHash), []byte(password),
	)
	return err == nil
}

// Can reports whether the user's role grants perm.
// Role must be preloaded.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdministrator is a shortcut for Can(PermAdmin).
func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}

// AvatarHash returns the gravatar hash of an email: hex MD5 of the
// trimmed lowercase address.
func AvatarHash(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}
