package assignmentController

import (
	"log"
	"time"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"
	assignmentValidator "futureminds/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// ListSubmissions returns an assignment's submissions joined with student
// display names. Newest submitted first; rows without a submitted_at sort as
// the most recent batch, with id as the deterministic tiebreak.
func ListSubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment models.Assignment
	if err := db.Where("id = ? AND educator_id = ?", assignmentID, userID).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submissions []models.Submission
	if err := db.Where("assignment_id = ?", assignment.ID).
		Order("submitted_at DESC NULLS FIRST").
		Order("id DESC").
		Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	studentIDs := make([]uint, 0, len(submissions))
	for _, submission := range submissions {
		studentIDs = append(studentIDs, submission.StudentID)
	}

	nameByStudent := map[uint]string{}
	if len(studentIDs) > 0 {
		var profiles []models.Profile
		db.Where("user_id IN ?", studentIDs).Find(&profiles)
		for _, profile := range profiles {
			nameByStudent[profile.UserID] = profile.DisplayName
		}
	}

	response := make([]fiber.Map, 0, len(submissions))
	for _, submission := range submissions {
		name := nameByStudent[submission.StudentID]
		if name == "" {
			name = "Unknown Student"
		}
		response = append(response, fiber.Map{
			"submission":   submission,
			"student_name": name,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", response)
}

// GradeSubmission records feedback and the XP award, credits the student's
// progress and appends the xp_earned activity entry, all in one transaction.
// Re-grading overwrites feedback and applies only the difference between the
// new and the previously stored award, so corrections never double-count XP.
func GradeSubmission(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	submissionID := c.Locals("gradeSubmissionID").(int)
	reqData := c.Locals("validatedGrade").(*assignmentValidator.GradeRequest)
	xpAwarded := *reqData.XPAwarded

	db := database.Database.Db

	var submission models.Submission
	if err := db.First(&submission, submissionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment models.Assignment
	if err := db.First(&assignment, submission.AssignmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if assignment.EducatorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only grade submissions for your own assignments!", nil)
	}

	xpDelta := xpAwarded - submission.XPAwarded
	now := time.Now()

	tx := db.Begin()
	if err := tx.Model(&submission).Updates(map[string]interface{}{
		"status":     models.SubmissionGraded,
		"feedback":   reqData.Feedback,
		"graded_at":  &now,
		"xp_awarded": xpAwarded,
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	if xpDelta != 0 {
		err := utils.ApplyProgressDelta(tx, submission.StudentID,
			utils.ProgressDelta{XP: xpDelta},
			map[string]interface{}{
				"source":        "assignment_graded",
				"assignment_id": assignment.ID,
			})
		if err != nil {
			tx.Rollback()
			if err == utils.ErrProgressNotFound {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student progress not found!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to award XP!", nil)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	// Notifications are best effort once the grade is durable
	go func(studentID uint, title string, xp int) {
		var student models.User
		if err := database.Database.Db.Select("display_name, email").First(&student, studentID).Error; err == nil && student.Email != "" {
			if err := utils.SendGradedEmail(student.Email, student.DisplayName, title, xp); err != nil {
				log.Printf("Error sending graded email: %v", err)
			}
		}
		utils.NotifyWebhook("submission_graded", studentID, map[string]interface{}{
			"assignment_id": assignment.ID,
			"xp_awarded":    xp,
		})
	}(submission.StudentID, assignment.Title, xpAwarded)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", fiber.Map{
		"submission_id": submission.ID,
		"status":        models.SubmissionGraded,
		"xp_awarded":    xpAwarded,
	})
}
