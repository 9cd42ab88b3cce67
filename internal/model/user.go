package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleEmployee   UserRole = "employee"
	UserRoleHR         UserRole = "hr"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// Elevated reports whether the role may act on other employees' leave
// requests.
func (r UserRole) Elevated() bool {
	return r == UserRoleHR || r == UserRoleSuperAdmin
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Avatar       string     `db:"avatar" json:"avatar,omitempty"`
	Role         UserRole   `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

type UserFilters struct {
	Role   UserRole
	Status UserStatus
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
