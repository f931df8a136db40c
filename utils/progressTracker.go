package utils

import (
	"encoding/json"
	"errors"
	"log"

	"futureminds/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProgressNotFound = errors.New("user progress row not found")

// ProgressDelta lists additive counter changes. Level replaces the stored
// value when set; everything else is an increment.
type ProgressDelta struct {
	XP                int
	Coins             int
	LessonsCompleted  int
	ProjectsCompleted int
	Level             int
}

// ApplyProgressDelta credits a user's progress counters with store-side
// increments, never read-modify-write, so concurrent awards cannot lose
// updates. When the XP delta is positive it also appends the single
// xp_earned activity entry for the event, merging the caller's metadata
// (e.g. source and assignment id). Callers must not log xp_earned
// themselves.
//
// Pass a transaction as db to make the counter update and the caller's other
// writes atomic.
func ApplyProgressDelta(db *gorm.DB, userID uint, delta ProgressDelta, xpMeta map[string]interface{}) error {
	updates := map[string]interface{}{}
	if delta.XP != 0 {
		updates["xp"] = gorm.Expr("xp + ?", delta.XP)
	}
	if delta.Coins != 0 {
		updates["coins"] = gorm.Expr("coins + ?", delta.Coins)
	}
	if delta.LessonsCompleted != 0 {
		updates["lessons_completed"] = gorm.Expr("lessons_completed + ?", delta.LessonsCompleted)
	}
	if delta.ProjectsCompleted != 0 {
		updates["projects_completed"] = gorm.Expr("projects_completed + ?", delta.ProjectsCompleted)
	}
	if delta.Level != 0 {
		updates["level"] = delta.Level
	}
	if len(updates) == 0 {
		return nil
	}

	result := db.Model(&models.UserProgress{}).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProgressNotFound
	}

	if delta.XP > 0 {
		data := map[string]interface{}{"xp_gained": delta.XP}
		for k, v := range xpMeta {
			data[k] = v
		}
		if err := LogActivity(db, userID, models.ActivityXPEarned, data); err != nil {
			return err
		}
	}

	return nil
}

// LogActivity appends one entry to the user's activity feed.
func LogActivity(db *gorm.DB, userID uint, activityType string, data map[string]interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	entry := models.ActivityLog{
		UserID:       userID,
		ActivityType: activityType,
		ActivityData: datatypes.JSON(payload),
	}
	return db.Create(&entry).Error
}

// TryLogActivity logs an activity entry and only reports failures to the
// server log. Use it where the feed entry accompanies an already-committed
// mutation and must never fail it.
func TryLogActivity(db *gorm.DB, userID uint, activityType string, data map[string]interface{}) {
	if err := LogActivity(db, userID, activityType, data); err != nil {
		log.Printf("Error logging activity %s for user %d: %v", activityType, userID, err)
	}
}
