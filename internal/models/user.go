// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role determines which part of the application a user can reach.
type Role string

const (
	// RoleAdmin can manage tools, review requests and reports, and run
	// vulnerability lookups.
	RoleAdmin Role = "admin"
	// RoleUser can browse the catalog, file tool requests, and submit
	// usage reports.
	RoleUser Role = "user"
)

// User is an account in the tool approval system. Self-registration
// always creates a RoleUser account; admins are promoted out of band.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
