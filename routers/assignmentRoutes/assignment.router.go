package assignmentRoutes

import (
	controllers "futureminds/controllers/assignments"
	"futureminds/middleware"
	"futureminds/models"
	validators "futureminds/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssignmentRoutes sets up assignment management and grading routes
func SetupAssignmentRoutes(app *fiber.App) {
	assignmentGroup := app.Group("/assignments", middleware.JWTMiddleware)

	// Student feed first so "/feed" is not captured by ":id"
	assignmentGroup.Get("/feed", middleware.RequireRole(models.RoleStudent), controllers.GetAssignmentFeed)

	assignmentGroup.Post("/", middleware.RequireRole(models.RoleEducator), validators.CreateAssignment(), controllers.CreateAssignment)
	assignmentGroup.Get("/", middleware.RequireRole(models.RoleEducator), controllers.GetMyAssignments)
	assignmentGroup.Delete("/:id", middleware.RequireRole(models.RoleEducator), validators.AssignmentID(), controllers.DeleteAssignment)
	assignmentGroup.Get("/:id/submissions", middleware.RequireRole(models.RoleEducator), validators.AssignmentID(), controllers.ListSubmissions)

	gradeGroup := app.Group("/submissions", middleware.JWTMiddleware)
	gradeGroup.Post("/:id/grade", middleware.RequireRole(models.RoleEducator), validators.Grade(), controllers.GradeSubmission)
}
