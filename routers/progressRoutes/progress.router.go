package progressRoutes

import (
	controllers "futureminds/controllers/progress"
	"futureminds/middleware"
	"futureminds/models"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up progress, activity and parent dashboard routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Get("/", controllers.GetMyProgress)
	progressGroup.Get("/activity", controllers.GetActivityFeed)
	progressGroup.Post("/lessons/:id/complete", middleware.RequireRole(models.RoleStudent), controllers.CompleteLesson)

	parentGroup := app.Group("/parent", middleware.JWTMiddleware, middleware.RequireRole(models.RoleParent))
	parentGroup.Get("/children", controllers.GetChildrenOverview)
	parentGroup.Post("/link", controllers.LinkChild)
}
