package progressController

import (
	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"

	"github.com/gofiber/fiber/v2"
)

// LinkChild connects the signed-in parent to a child account by email
func LinkChild(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var body struct {
		ChildEmail string `json:"child_email"`
	}
	if err := c.BodyParser(&body); err != nil || body.ChildEmail == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Child email is required!", nil)
	}

	db := database.Database.Db

	var child models.User
	if err := db.Where("email = ? AND is_deleted = ?", body.ChildEmail, false).First(&child).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Child account not found!", nil)
	}

	var childRole models.UserRole
	if err := db.Where("user_id = ? AND role = ?", child.ID, models.RoleStudent).First(&childRole).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Child account not found!", nil)
	}

	var existing models.ParentChildLink
	if err := db.Where("parent_id = ? AND child_id = ?", userID, child.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Child is already linked!", nil)
	}

	link := models.ParentChildLink{ParentID: userID, ChildID: child.ID}
	if err := db.Create(&link).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to link child!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Child linked successfully!", link)
}

// GetChildrenOverview builds the parent dashboard payload: per linked child
// the profile, progress counters, pending approval requests and the ten most
// recent activity entries.
func GetChildrenOverview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var links []models.ParentChildLink
	if err := db.Where("parent_id = ?", userID).Find(&links).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch children!", nil)
	}

	response := make([]fiber.Map, 0, len(links))
	for _, link := range links {
		var profile models.Profile
		db.Where("user_id = ?", link.ChildID).First(&profile)

		var progress models.UserProgress
		db.Where("user_id = ?", link.ChildID).First(&progress)

		var pending []models.ApprovalRequest
		db.Where("child_id = ? AND status = ?", link.ChildID, models.ApprovalPending).
			Order("created_at asc").Find(&pending)

		var activities []models.ActivityLog
		db.Where("user_id = ?", link.ChildID).
			Order("created_at desc").Limit(10).Find(&activities)

		response = append(response, fiber.Map{
			"child_id":         link.ChildID,
			"linked_at":        link.LinkedAt,
			"profile":          profile,
			"progress":         progress,
			"pending_requests": pending,
			"recent_activity":  activities,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Children fetched successfully!", response)
}
