package models

// Role represents user roles in the system
type Role string

// RoleUser is the only role the demo identity ever carries.
const RoleUser Role = "user"

// DemoUserID is the fixed identifier reported for the demo identity.
const DemoUserID int64 = 1

// User represents the public view of the demo identity
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// LoginRequest represents a login request. Missing fields stay nil and never
// match the configured credentials.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AuthResponse is returned by login and logout
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// CurrentUserResponse is returned by the "who am I" endpoint
type CurrentUserResponse struct {
	User User `json:"user"`
}
