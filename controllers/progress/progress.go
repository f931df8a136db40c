package progressController

import (
	"strconv"
	"strings"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"

	"github.com/gofiber/fiber/v2"
)

// GetMyProgress returns the signed-in user's progress row
func GetMyProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var progress models.UserProgress
	if err := database.Database.Db.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

// GetActivityFeed returns the user's most recent activity entries
func GetActivityFeed(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var activities []models.ActivityLog
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&activities).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity fetched successfully!", activities)
}

// CompleteLesson credits the fixed lesson reward and records the completion
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := strings.TrimSpace(c.Params("id"))
	if lessonID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
	}

	db := database.Database.Db

	err := utils.ApplyProgressDelta(db, userID,
		utils.ProgressDelta{XP: 50, Coins: 10, LessonsCompleted: 1},
		map[string]interface{}{"source": "lesson_completed", "lesson_id": lessonID})
	if err != nil {
		if err == utils.ErrProgressNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	utils.TryLogActivity(db, userID, models.ActivityLessonCompleted, map[string]interface{}{
		"lesson_id": lessonID,
	})

	var progress models.UserProgress
	db.Where("user_id = ?", userID).First(&progress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed successfully!", progress)
}
