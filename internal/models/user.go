package models

import "time"

// UserRole represents the roles recognised by the reporting system.
type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLecturer UserRole = "lecturer"
	RolePRL      UserRole = "prl"
	RolePL       UserRole = "pl"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RolePRL, RolePL:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// Faculty is only populated for PRL accounts.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Faculty      *string   `db:"faculty" json:"faculty,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
