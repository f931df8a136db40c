package models

import (
	"time"

	"gorm.io/gorm"
)

type ClassEnrollment struct {
	gorm.Model
	ClassID    uint      `json:"class_id" gorm:"index;not null"`
	StudentID  uint      `json:"student_id" gorm:"index;not null"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
}
