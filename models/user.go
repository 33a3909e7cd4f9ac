package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Vendors buy raw materials, suppliers sell them.
const (
	RoleVendor   = "vendor"
	RoleSupplier = "supplier"
)

// User represents an account in the marketplace (vendor or supplier)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"not null;default:'vendor'" json:"role"` // "vendor" or "supplier"
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the supported account roles
func ValidRole(role string) bool {
	return role == RoleVendor || role == RoleSupplier
}
