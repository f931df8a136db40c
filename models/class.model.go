package models

import (
	"gorm.io/gorm"
)

// Class is owned and fully controlled by one educator.
type Class struct {
	gorm.Model
	EducatorID  uint   `json:"educator_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"default:''"`
	Subject     string `json:"subject" gorm:"default:''"`
	GradeLevel  string `json:"grade_level" gorm:"default:''"`
}
