package main

import (
	"log"

	"futureminds/config"
	"futureminds/database"
	approvalRoutes "futureminds/routers/approvalRoutes"
	assignmentRoutes "futureminds/routers/assignmentRoutes"
	authRoutes "futureminds/routers/authRoutes"
	classRoutes "futureminds/routers/classRoutes"
	progressRoutes "futureminds/routers/progressRoutes"
	submissionRoutes "futureminds/routers/submissionRoutes"
	"futureminds/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	classRoutes.SetupClassRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)
	submissionRoutes.SetupSubmissionRoutes(app)
	approvalRoutes.SetupApprovalRoutes(app)
	progressRoutes.SetupProgressRoutes(app)

	// Hourly sweep that reminds parents about stale pending requests
	utils.InitializeApprovalScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
