package models

import (
	"gorm.io/gorm"
)

// Roles assignable at signup. Admin is reserved for manual assignment.
const (
	RoleStudent  = "student"
	RoleParent   = "parent"
	RoleEducator = "educator"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	DisplayName string `json:"display_name" gorm:"default:''"`
	Email       string `json:"email" gorm:"unique;not null"`
	Password    string `json:"-" gorm:"not null"`
	Avatar      string `json:"avatar" gorm:"default:''"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
