package models

import (
	"gorm.io/gorm"
)

// UserRole maps a user to one of the application roles. The role claim in a
// JWT is a hint only; authorization checks read this table.
type UserRole struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	Role   string `json:"role" gorm:"not null"`
}
