package assignmentController

import (
	"log"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"
	assignmentValidator "futureminds/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

func CreateAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedCreateAssignment").(*assignmentValidator.CreateAssignmentRequest)

	db := database.Database.Db

	// The target class must belong to the caller
	var class models.Class
	if err := db.Where("id = ? AND educator_id = ?", reqData.ClassID, userID).First(&class).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Class not found!", nil)
	}

	assignment := models.Assignment{
		ClassID:     class.ID,
		EducatorID:  userID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueDate:     reqData.ParsedDueDate,
		XPReward:    reqData.XPReward,
	}

	if err := db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// GetMyAssignments lists the educator's assignments with submission counts
func GetMyAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var assignments []models.Assignment
	if err := db.Where("educator_id = ?", userID).Order("created_at desc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	response := make([]fiber.Map, 0, len(assignments))
	for _, assignment := range assignments {
		var submissionCount int64
		db.Model(&models.Submission{}).Where("assignment_id = ?", assignment.ID).Count(&submissionCount)

		var class models.Class
		db.Select("name").First(&class, assignment.ClassID)

		response = append(response, fiber.Map{
			"assignment":       assignment,
			"class_name":       class.Name,
			"submission_count": submissionCount,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", response)
}

// GetAssignmentFeed lists assignments of the student's enrolled classes,
// soonest due first, each with the student's own submission when one exists
func GetAssignmentFeed(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var classIDs []uint
	db.Model(&models.ClassEnrollment{}).Where("student_id = ?", userID).Pluck("class_id", &classIDs)

	if len(classIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", []fiber.Map{})
	}

	var assignments []models.Assignment
	if err := db.Where("class_id IN ?", classIDs).Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	response := make([]fiber.Map, 0, len(assignments))
	for _, assignment := range assignments {
		var class models.Class
		db.Select("name").First(&class, assignment.ClassID)

		entry := fiber.Map{
			"assignment": assignment,
			"class_name": class.Name,
		}

		var submission models.Submission
		if err := db.Where("assignment_id = ? AND student_id = ?", assignment.ID, userID).First(&submission).Error; err == nil {
			entry["submission"] = submission
		}

		response = append(response, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", response)
}

// DeleteAssignment removes an assignment and its submissions in one
// transaction; attachment blobs are cleaned up after commit.
func DeleteAssignment(c *fiber.Ctx) error {
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
	db.Where("assignment_id = ?", assignment.ID).Find(&submissions)

	tx := db.Begin()
	if err := tx.Where("assignment_id = ?", assignment.ID).Delete(&models.Submission{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}
	if err := tx.Delete(&assignment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}
	tx.Commit()

	// Blob cleanup is best effort; a leftover file is harmless
	for _, submission := range submissions {
		for _, key := range submission.FileList() {
			if err := utils.DeleteSubmissionFile(key); err != nil {
				log.Printf("Error deleting attachment %s: %v", key, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment deleted successfully!", nil)
}
