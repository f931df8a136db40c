package submissionRoutes

import (
	controllers "futureminds/controllers/submissions"
	"futureminds/middleware"
	"futureminds/models"
	assignmentValidators "futureminds/validators/assignment"
	validators "futureminds/validators/submission"

	"github.com/gofiber/fiber/v2"
)

// SetupSubmissionRoutes sets up the student submission workflow plus the
// authenticated attachment download route.
func SetupSubmissionRoutes(app *fiber.App) {
	submissionGroup := app.Group("/assignments/:id/submission", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent), assignmentValidators.AssignmentID())

	submissionGroup.Get("/", controllers.GetMySubmission)
	submissionGroup.Post("/files", controllers.UploadFiles)
	submissionGroup.Delete("/files", validators.RemoveFile(), controllers.RemoveFile)
	submissionGroup.Post("/submit", controllers.SubmitAssignment)

	// Attachments are never served statically
	app.Get("/files/*", middleware.JWTMiddleware, controllers.DownloadFile)
}
