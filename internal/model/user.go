package model

import "time"

// Role is the authorization level of a staff account.
//
// The core services never authenticate anyone — they receive an
// already-resolved Role from the caller (the HTTP layer reads it from the
// JWT) and check it against each operation's requirement. That makes
// authorization an ordinary, testable function argument instead of ambient
// middleware state.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"

	// RoleNone is the zero value: an unauthenticated or unknown caller.
	RoleNone Role = ""
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleFaculty
}

// IsAdmin reports whether r meets the "admin" requirement.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// FacultyOrAbove reports whether r meets the "faculty-or-above" requirement.
// Admins can do everything faculty can.
func (r Role) FacultyOrAbove() bool {
	return r == RoleFaculty || r == RoleAdmin
}

// User is a staff account that operates on student records.
//
// WHY PasswordHash `json:"-"`?
// The dash tells encoding/json to NEVER serialize this field. Password hashes
// must not leak through any API response, including the admin user listing —
// excluding it at the type level is safer than remembering to strip it in
// every handler.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
