package user

import (
	"database/sql"
	"time"
)

// Role values stored in users.role
const (
	RoleOwner    = "OWNER"
	RoleEmployee = "EMPLOYEE"
)

// User represents the users table
type User struct {
	ID             int          `db:"id" json:"id"`
	Name           string       `db:"name" json:"name"`
	Email          string       `db:"email" json:"email"`
	PasswordDigest string       `db:"password_digest" json:"-"`
	Role           string       `db:"role" json:"role"`
	DeletedAt      sql.NullTime `db:"deleted_at" json:"-"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the user has not been soft-deleted
func (u *User) IsActive() bool {
	return !u.DeletedAt.Valid
}
