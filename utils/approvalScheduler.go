package utils

import (
	"fmt"
	"log"
	"time"

	"futureminds/config"
	"futureminds/database"
	"futureminds/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[APPROVAL-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// processApprovalReminders emails parents about pending requests that have
// sat unreviewed longer than the configured age. Each request is reminded
// once; the sweep stamps reminder_sent_at so the next run skips it.
func processApprovalReminders() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.ApprovalReminderHours) * time.Hour)

	var stale []models.ApprovalRequest
	if err := db.Where("status = ? AND created_at <= ? AND reminder_sent_at IS NULL",
		models.ApprovalPending, cutoff).Find(&stale).Error; err != nil {
		logScheduler("Error fetching stale approval requests: " + err.Error())
		return
	}

	for _, request := range stale {
		var childProfile models.Profile
		childName := "Your child"
		if err := db.Where("user_id = ?", request.ChildID).First(&childProfile).Error; err == nil {
			childName = childProfile.DisplayName
		}

		var links []models.ParentChildLink
		if err := db.Where("child_id = ?", request.ChildID).Find(&links).Error; err != nil {
			logScheduler("Error fetching parent links: " + err.Error())
			continue
		}

		for _, link := range links {
			var parent models.User
			if err := db.Select("display_name, email").First(&parent, link.ParentID).Error; err != nil || parent.Email == "" {
				continue
			}
			if err := SendApprovalReminderEmail(parent.Email, parent.DisplayName, childName, request.RequestType); err != nil {
				logScheduler("Error sending reminder email: " + err.Error())
			}
		}

		now := time.Now()
		if err := db.Model(&models.ApprovalRequest{}).Where("id = ?", request.ID).
			Update("reminder_sent_at", &now).Error; err != nil {
			logScheduler("Error stamping reminder: " + err.Error())
		}
	}

	if len(stale) > 0 {
		logScheduler(fmt.Sprintf("Sent reminders for %d stale requests", len(stale)))
	}
}

// InitializeApprovalScheduler starts the hourly reminder sweep
func InitializeApprovalScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", processApprovalReminders); err != nil {
		log.Fatalf("Failed to register approval reminder job: %v", err)
	}

	c.Start()
	logScheduler("Approval reminder scheduler started")
	return c
}
