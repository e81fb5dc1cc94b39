package models

import "time"

// Role is the closed set of account roles. Role-driven behavior must switch
// exhaustively over these values; unknown roles are rejected at the boundary
// instead of falling through.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleAgent Role = "agent"
	RoleBuyer Role = "buyer"
)

// Known reports whether r is one of the defined roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleAgent, RoleBuyer:
		return true
	}
	return false
}

// User & auth related models
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"unique;not null;index" json:"email"`
	Role         Role   `gorm:"not null" json:"role"`
	Phone        string `json:"phone,omitempty"`
	Company      string `json:"company,omitempty"`
	Bio          string `json:"bio,omitempty"`
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the persisted login state: a bearer token plus the user it
// belongs to. Owned exclusively by the session container.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
