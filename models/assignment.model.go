package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment is created by an educator for one of their classes. Deleting an
// assignment also deletes its submissions (no orphaned attempt records).
type Assignment struct {
	gorm.Model
	ClassID     uint       `json:"class_id" gorm:"index;not null"`
	EducatorID  uint       `json:"educator_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"default:''"`
	DueDate     *time.Time `json:"due_date"`
	XPReward    int        `json:"xp_reward" gorm:"default:0;check:xp_reward >= 0"`
}
