package submissionValidator

import (
	"strings"

	"futureminds/middleware"

	"github.com/gofiber/fiber/v2"
)

func RemoveFile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			FileURL string `json:"file_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.FileURL = strings.TrimSpace(reqData.FileURL)
		if reqData.FileURL == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"file_url": "File URL is required!",
			})
		}

		c.Locals("removeFileURL", reqData.FileURL)
		return c.Next()
	}
}
