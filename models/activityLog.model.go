package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity types written by the application.
const (
	ActivityLessonStarted    = "lesson_started"
	ActivityLessonCompleted  = "lesson_completed"
	ActivityProjectCreated   = "project_created"
	ActivityProjectPublished = "project_published"
	ActivityXPEarned         = "xp_earned"
	ActivityBadgeEarned      = "badge_earned"
)

// ActivityLog is an append-only display feed. Progress is a separately
// mutated aggregate and is never derived from this log.
type ActivityLog struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	ActivityType string         `json:"activity_type" gorm:"not null"`
	ActivityData datatypes.JSON `json:"activity_data"`
}
