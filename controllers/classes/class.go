package classController

import (
	"log"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"
	classValidator "futureminds/validators/class"

	"github.com/gofiber/fiber/v2"
)

func CreateClass(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedCreateClass").(*classValidator.CreateClassRequest)

	newClass := models.Class{
		EducatorID:  userID,
		Name:        reqData.Name,
		Description: reqData.Description,
		Subject:     reqData.Subject,
		GradeLevel:  reqData.GradeLevel,
	}

	if err := database.Database.Db.Create(&newClass).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create class!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Class created successfully!", newClass)
}

// GetMyClasses lists the educator's classes with per-class student counts
func GetMyClasses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var classes []models.Class
	if err := db.Where("educator_id = ?", userID).Order("created_at desc").Find(&classes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch classes!", nil)
	}

	response := make([]fiber.Map, 0, len(classes))
	for _, cls := range classes {
		var studentCount int64
		db.Model(&models.ClassEnrollment{}).Where("class_id = ?", cls.ID).Count(&studentCount)
		response = append(response, fiber.Map{
			"class":         cls,
			"student_count": studentCount,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Classes fetched successfully!", response)
}

// DeleteClass removes a class together with its enrollments, assignments and
// their submissions, so nothing is orphaned.
func DeleteClass(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	classID := c.Locals("classID").(int)

	db := database.Database.Db

	var class models.Class
	if err := db.Where("id = ? AND educator_id = ?", classID, userID).First(&class).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Class not found!", nil)
	}

	var assignmentIDs []uint
	db.Model(&models.Assignment{}).Where("class_id = ?", class.ID).Pluck("id", &assignmentIDs)

	var submissions []models.Submission
	if len(assignmentIDs) > 0 {
		db.Where("assignment_id IN ?", assignmentIDs).Find(&submissions)
	}

	tx := db.Begin()
	if len(assignmentIDs) > 0 {
		if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&models.Submission{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete class!", nil)
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Assignment{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete class!", nil)
		}
	}
	if err := tx.Where("class_id = ?", class.ID).Delete(&models.ClassEnrollment{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete class!", nil)
	}
	if err := tx.Delete(&class).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete class!", nil)
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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Class deleted successfully!", nil)
}

// EnrollStudent adds a student to one of the educator's classes
func EnrollStudent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	classID := c.Locals("classID").(int)
	studentID := c.Locals("enrollStudentID").(uint)

	db := database.Database.Db

	var class models.Class
	if err := db.Where("id = ? AND educator_id = ?", classID, userID).First(&class).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Class not found!", nil)
	}

	// The enrolled account must actually be a student
	var studentRole models.UserRole
	if err := db.Where("user_id = ? AND role = ?", studentID, models.RoleStudent).First(&studentRole).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	var existing models.ClassEnrollment
	if err := db.Where("class_id = ? AND student_id = ?", class.ID, studentID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student is already enrolled in this class!", nil)
	}

	enrollment := models.ClassEnrollment{
		ClassID:   class.ID,
		StudentID: studentID,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll student!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Student enrolled successfully!", enrollment)
}

// GetClassStudents lists enrolled students with profile and progress, for
// the educator monitoring view
func GetClassStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	classID := c.Locals("classID").(int)

	db := database.Database.Db

	var class models.Class
	if err := db.Where("id = ? AND educator_id = ?", classID, userID).First(&class).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Class not found!", nil)
	}

	var enrollments []models.ClassEnrollment
	if err := db.Where("class_id = ?", class.ID).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	response := make([]fiber.Map, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var profile models.Profile
		db.Where("user_id = ?", enrollment.StudentID).First(&profile)

		var progress models.UserProgress
		db.Where("user_id = ?", enrollment.StudentID).First(&progress)

		response = append(response, fiber.Map{
			"student_id":  enrollment.StudentID,
			"enrolled_at": enrollment.EnrolledAt,
			"profile":     profile,
			"progress":    progress,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", response)
}

// GetEnrolledClasses lists the classes the signed-in student is enrolled in
func GetEnrolledClasses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []models.ClassEnrollment
	if err := db.Where("student_id = ?", userID).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch classes!", nil)
	}

	classIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		classIDs = append(classIDs, enrollment.ClassID)
	}

	var classes []models.Class
	if len(classIDs) > 0 {
		if err := db.Where("id IN ?", classIDs).Find(&classes).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch classes!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Classes fetched successfully!", classes)
}
