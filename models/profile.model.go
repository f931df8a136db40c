package models

import (
	"gorm.io/gorm"
)

type Profile struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name" gorm:"not null"`
	Avatar      string `json:"avatar" gorm:"default:''"`
	AgeBracket  string `json:"age_bracket" gorm:"default:''"`
}
