package classValidator

import (
	"strconv"
	"strings"

	"futureminds/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateClassRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	GradeLevel  string `json:"grade_level"`
}

func CreateClass() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateClassRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Class name is required!"
		} else if len(reqData.Name) > 120 {
			errors["name"] = "Class name must be less than 120 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateClass", reqData)
		return c.Next()
	}
}

func ClassID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		classIDStr := strings.TrimSpace(c.Params("id"))
		if classIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Class ID is required!", nil)
		}

		classID, err := strconv.Atoi(classIDStr)
		if err != nil || classID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Class ID!", nil)
		}

		c.Locals("classID", classID)
		return c.Next()
	}
}

func EnrollStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID uint `json:"student_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.StudentID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"student_id": "Student ID is required!",
			})
		}

		c.Locals("enrollStudentID", reqData.StudentID)
		return c.Next()
	}
}
