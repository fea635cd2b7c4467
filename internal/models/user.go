package models

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// RootAdminID is the bootstrap administrator. It cannot be deleted or demoted
// and is the only account allowed to manage other admins.
const RootAdminID int64 = 1

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserWithDeckCount is a row of the admin user listing.
type UserWithDeckCount struct {
	User
	DeckCount int `json:"deckCount"`
}

// ValidRole reports whether role is assignable.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
