package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser       = "USER"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

type User struct {
	gorm.Model
	Name      string     `gorm:"default:''" json:"name"`
	Email     string     `gorm:"unique;not null" json:"email"`
	Role      string     `gorm:"default:'USER'" json:"role"` // USER, INSTRUCTOR, ADMIN
	Password  string     `gorm:"not null" json:"-"`
	LastLogin *time.Time `json:"lastLogin"`
	IsDeleted bool       `gorm:"default:false" json:"isDeleted"`
}
