package approvalRoutes

import (
	controllers "futureminds/controllers/approvals"
	"futureminds/middleware"
	"futureminds/models"
	validators "futureminds/validators/approval"

	"github.com/gofiber/fiber/v2"
)

// SetupApprovalRoutes sets up the child request and parent decision routes
func SetupApprovalRoutes(app *fiber.App) {
	approvalGroup := app.Group("/approvals", middleware.JWTMiddleware)

	approvalGroup.Post("/", middleware.RequireRole(models.RoleStudent), validators.Create(), controllers.CreateRequest)
	approvalGroup.Get("/mine", middleware.RequireRole(models.RoleStudent), controllers.ListMine)
	approvalGroup.Get("/pending", middleware.RequireRole(models.RoleParent), controllers.ListPending)
	approvalGroup.Post("/:id/resolve", middleware.RequireRole(models.RoleParent), validators.Resolve(), controllers.Resolve)
}
