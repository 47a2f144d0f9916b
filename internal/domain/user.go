package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries a partial update. Nil fields are left untouched;
// a present empty string is applied as-is.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}
