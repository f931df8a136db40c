package approvalController

import (
	"encoding/json"
	"log"
	"time"

	"futureminds/database"
	"futureminds/middleware"
	"futureminds/models"
	"futureminds/utils"
	approvalValidator "futureminds/validators/approval"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateRequest files a pending approval request for the signed-in child.
// Publishing a project also credits the creation itself right away; only the
// publish step waits on the parent.
func CreateRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedApproval").(*approvalValidator.CreateRequest)

	db := database.Database.Db

	payload, err := json.Marshal(reqData.RequestData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	request := models.ApprovalRequest{
		ChildID:     userID,
		RequestType: reqData.RequestType,
		RequestData: datatypes.JSON(payload),
		Status:      models.ApprovalPending,
	}
	if err := db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create request!", nil)
	}

	if reqData.RequestType == models.RequestPublishProject {
		utils.TryLogActivity(db, userID, models.ActivityProjectCreated, reqData.RequestData)
		err := utils.ApplyProgressDelta(db, userID,
			utils.ProgressDelta{XP: 100, ProjectsCompleted: 1},
			map[string]interface{}{"source": "project_created"})
		if err != nil {
			log.Printf("Error crediting project creation for user %d: %v", userID, err)
		}
	}

	// Tell every linked parent about the new request
	go notifyParents(&request)
	go utils.NotifyWebhook("approval_requested", userID, map[string]interface{}{
		"request_id":   request.ID,
		"request_type": request.RequestType,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Approval request created successfully!", request)
}

func notifyParents(request *models.ApprovalRequest) {
	db := database.Database.Db

	var child models.User
	if err := db.Select("display_name").First(&child, request.ChildID).Error; err != nil {
		return
	}

	var links []models.ParentChildLink
	db.Where("child_id = ?", request.ChildID).Find(&links)
	for _, link := range links {
		var parent models.User
		if err := db.Select("display_name, email").First(&parent, link.ParentID).Error; err != nil || parent.Email == "" {
			continue
		}
		if err := utils.SendApprovalRequestEmail(parent.Email, parent.DisplayName, child.DisplayName, request.RequestType); err != nil {
			log.Printf("Error sending approval request email: %v", err)
		}
	}
}

// ListPending shows the parent every pending request from their linked children
func ListPending(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var childIDs []uint
	db.Model(&models.ParentChildLink{}).Where("parent_id = ?", userID).Pluck("child_id", &childIDs)

	if len(childIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Requests fetched successfully!", []fiber.Map{})
	}

	var requests []models.ApprovalRequest
	if err := db.Where("child_id IN ? AND status = ?", childIDs, models.ApprovalPending).
		Order("created_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	nameByChild := map[uint]string{}
	var profiles []models.Profile
	db.Where("user_id IN ?", childIDs).Find(&profiles)
	for _, profile := range profiles {
		nameByChild[profile.UserID] = profile.DisplayName
	}

	response := make([]fiber.Map, 0, len(requests))
	for _, request := range requests {
		response = append(response, fiber.Map{
			"request":    request,
			"child_name": nameByChild[request.ChildID],
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Requests fetched successfully!", response)
}

// ListMine shows the child their own requests, newest first
func ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var requests []models.ApprovalRequest
	if err := database.Database.Db.Where("child_id = ?", userID).
		Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Requests fetched successfully!", requests)
}

// Resolve records the parent's decision. The update is guarded on the
// pending status, so a request resolves exactly once; a second attempt gets
// a conflict no matter which parent sent it.
func Resolve(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("approvalRequestID").(int)
	reqData := c.Locals("validatedResolve").(*approvalValidator.ResolveRequest)

	db := database.Database.Db

	var request models.ApprovalRequest
	if err := db.First(&request, requestID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Request not found!", nil)
	}

	// Only a linked parent may decide
	var link models.ParentChildLink
	if err := db.Where("parent_id = ? AND child_id = ?", userID, request.ChildID).First(&link).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not linked to this child!", nil)
	}

	now := time.Now()
	result := db.Model(&models.ApprovalRequest{}).
		Where("id = ? AND status = ?", request.ID, models.ApprovalPending).
		Updates(map[string]interface{}{
			"status":      reqData.Decision,
			"parent_id":   userID,
			"reviewed_at": &now,
		})
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve request!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Request has already been resolved!", nil)
	}

	if reqData.Decision == models.ApprovalApproved && request.RequestType == models.RequestPublishProject {
		utils.TryLogActivity(db, request.ChildID, models.ActivityProjectPublished, map[string]interface{}{
			"request_id": request.ID,
		})
	}

	go func(childID uint, requestType, decision string) {
		var child models.User
		if err := database.Database.Db.Select("display_name, email").First(&child, childID).Error; err == nil && child.Email != "" {
			if err := utils.SendApprovalDecisionEmail(child.Email, child.DisplayName, requestType, decision); err != nil {
				log.Printf("Error sending approval decision email: %v", err)
			}
		}
		utils.NotifyWebhook("approval_resolved", childID, map[string]interface{}{
			"request_id": request.ID,
			"decision":   decision,
		})
	}(request.ChildID, request.RequestType, reqData.Decision)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Request resolved successfully!", fiber.Map{
		"request_id":  request.ID,
		"status":      reqData.Decision,
		"reviewed_at": now,
	})
}
