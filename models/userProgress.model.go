package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProgress holds additive counters per user. One row per user, created
// at signup. Counters only move through atomic store-side increments; see
// utils.ApplyProgressDelta.
type UserProgress struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	XP                int            `json:"xp" gorm:"default:0"`
	Level             int            `json:"level" gorm:"default:1"`
	Coins             int            `json:"coins" gorm:"default:0"`
	LessonsCompleted  int            `json:"lessons_completed" gorm:"default:0"`
	ProjectsCompleted int            `json:"projects_completed" gorm:"default:0"`
	Badges            datatypes.JSON `json:"badges"`
}
