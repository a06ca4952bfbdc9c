package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// Admin is a back-office operator. Admins are created by the seed command only.
type Admin struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         string     `gorm:"default:admin" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// ValidAdminRole reports whether role is a known admin role.
func ValidAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
