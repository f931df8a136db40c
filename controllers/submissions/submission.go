package submissionController

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// getOrCreateSubmission loads the student's submission for an assignment,
// creating it as in_progress on first touch. A concurrent first touch can
// make the insert race; losing the race is fine, we just load the winner.
func getOrCreateSubmission(db *gorm.DB, assignmentID, studentID uint) (*models.Submission, error) {
	var submission models.Submission
	err := db.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&submission).Error
	if err == nil {
		return &submission, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	submission = models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Status:       models.SubmissionInProgress,
	}
	if createErr := db.Create(&submission).Error; createErr != nil {
		if loadErr := db.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&submission).Error; loadErr == nil {
			return &submission, nil
		}
		return nil, createErr
	}
	return &submission, nil
}

// checkEnrollment verifies the student is enrolled in the assignment's class
func checkEnrollment(db *gorm.DB, assignment *models.Assignment, studentID uint) error {
	var enrollment models.ClassEnrollment
	return db.Where("class_id = ? AND student_id = ?", assignment.ClassID, studentID).First(&enrollment).Error
}

// GetMySubmission returns the student's submission for an assignment. No
// submission yet is a normal state, not an error.
func GetMySubmission(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment models.Assignment
	if err := db.First(&assignment, assignmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var submission models.Submission
	if err := db.Where("assignment_id = ? AND student_id = ?", assignment.ID, userID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No submission yet.", fiber.Map{
			"status": models.SubmissionNotStarted,
			"files":  []string{},
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission fetched successfully!", fiber.Map{
		"submission": submission,
		"files":      submission.FileList(),
	})
}

// UploadFiles attaches one or more files to the student's submission. Files
// saved before a failure stay attached; the response names the file that
// failed so the client can retry just that one.
func UploadFiles(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment models.Assignment
	if err := db.First(&assignment, assignmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if err := checkEnrollment(db, &assignment, userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this class!", nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid multipart form!", nil)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No files provided!", nil)
	}

	submission, err := getOrCreateSubmission(db, assignment.ID, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load submission!", nil)
	}
	if submission.Status == models.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission is already graded!", nil)
	}

	keys := submission.FileList()
	uploaded := make([]string, 0, len(files))
	var failedFile string

	for _, file := range files {
		key, saveErr := utils.SaveSubmissionFile(file, userID, submission.ID)
		if saveErr != nil {
			log.Printf("Error saving file %s: %v", file.Filename, saveErr)
			failedFile = file.Filename
			break
		}
		keys = append(keys, key)
		uploaded = append(uploaded, key)
	}

	if len(uploaded) > 0 {
		submission.SetFileList(keys)
		if err := db.Model(submission).Updates(map[string]interface{}{
			"file_urls": submission.FileURLs,
			"status":    models.SubmissionInProgress,
		}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save files!", nil)
		}
	}

	if failedFile != "" {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Some files could not be uploaded!", fiber.Map{
			"uploaded":    uploaded,
			"failed_file": failedFile,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Files uploaded successfully!", fiber.Map{
		"uploaded": uploaded,
		"files":    keys,
	})
}

// RemoveFile detaches one file from the submission. The blob is removed
// first; if that fails the reference stays so nothing dangles.
func RemoveFile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)
	fileKey := c.Locals("removeFileURL").(string)

	db := database.Database.Db

	var submission models.Submission
	if err := db.Where("assignment_id = ? AND student_id = ?", assignmentID, userID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}
	if submission.Status == models.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission is already graded!", nil)
	}

	keys := submission.FileList()
	found := false
	remaining := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == fileKey && !found {
			found = true
			continue
		}
		remaining = append(remaining, key)
	}
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found on submission!", nil)
	}

	if err := utils.DeleteSubmissionFile(fileKey); err != nil {
		log.Printf("Error deleting attachment %s: %v", fileKey, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove file!", nil)
	}

	submission.SetFileList(remaining)
	if err := db.Model(&submission).Update("file_urls", submission.FileURLs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "File removed successfully!", fiber.Map{
		"files": remaining,
	})
}

// SubmitAssignment marks the student's submission as submitted. Resubmitting
// just refreshes submitted_at; a graded submission cannot be reopened.
func SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment models.Assignment
	if err := db.First(&assignment, assignmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}
	if err := checkEnrollment(db, &assignment, userID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this class!", nil)
	}

	submission, err := getOrCreateSubmission(db, assignment.ID, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load submission!", nil)
	}
	if submission.Status == models.SubmissionGraded {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Submission is already graded!", nil)
	}

	now := time.Now()
	if err := db.Model(submission).Updates(map[string]interface{}{
		"status":       models.SubmissionSubmitted,
		"submitted_at": &now,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment submitted successfully!", fiber.Map{
		"submission_id": submission.ID,
		"status":        models.SubmissionSubmitted,
		"submitted_at":  now,
	})
}

// DownloadFile streams a submission attachment to its owner or to the
// educator who set the assignment. The key encodes the owning student and
// submission, but authorization always goes through the database row.
func DownloadFile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	key := strings.TrimPrefix(c.Params("*"), "/")

	parts := strings.SplitN(key, "/", 4)
	if len(parts) != 4 || parts[0] != "submissions" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file key!", nil)
	}
	studentID, err1 := strconv.ParseUint(parts[1], 10, 32)
	submissionID, err2 := strconv.ParseUint(parts[2], 10, 32)
	if err1 != nil || err2 != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file key!", nil)
	}

	db := database.Database.Db

	var submission models.Submission
	if err := db.Where("id = ? AND student_id = ?", submissionID, studentID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found!", nil)
	}

	attached := false
	for _, k := range submission.FileList() {
		if k == key {
			attached = true
			break
		}
	}
	if !attached {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found!", nil)
	}

	if userID != submission.StudentID {
		var assignment models.Assignment
		if err := db.Where("id = ? AND educator_id = ?", submission.AssignmentID, userID).First(&assignment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You cannot access this file!", nil)
		}
	}

	path, err := utils.ResolveFilePath(key)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid file key!", nil)
	}

	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", parts[3]))
	return c.SendFile(path)
}
