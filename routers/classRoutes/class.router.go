package classRoutes

import (
	controllers "futureminds/controllers/classes"
	"futureminds/middleware"
	"futureminds/models"
	validators "futureminds/validators/class"

	"github.com/gofiber/fiber/v2"
)

// SetupClassRoutes sets up class management and enrollment routes
func SetupClassRoutes(app *fiber.App) {
	classGroup := app.Group("/classes", middleware.JWTMiddleware)

	// Student view first so "/mine" is not captured by ":id"
	classGroup.Get("/mine", middleware.RequireRole(models.RoleStudent), controllers.GetEnrolledClasses)

	classGroup.Post("/", middleware.RequireRole(models.RoleEducator), validators.CreateClass(), controllers.CreateClass)
	classGroup.Get("/", middleware.RequireRole(models.RoleEducator), controllers.GetMyClasses)
	classGroup.Delete("/:id", middleware.RequireRole(models.RoleEducator), validators.ClassID(), controllers.DeleteClass)
	classGroup.Post("/:id/enroll", middleware.RequireRole(models.RoleEducator), validators.ClassID(), validators.EnrollStudent(), controllers.EnrollStudent)
	classGroup.Get("/:id/students", middleware.RequireRole(models.RoleEducator), validators.ClassID(), controllers.GetClassStudents)
}
