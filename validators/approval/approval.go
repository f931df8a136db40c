package approvalValidator

import (
	"strconv"
	"strings"

	"futureminds/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateRequest struct {
	RequestType string                 `json:"request_type" validate:"required,oneof=publish_project share_content join_challenge"`
	RequestData map[string]interface{} `json:"request_data"`
}

type ResolveRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"request_type": "Request type must be publish_project, share_content or join_challenge!",
			})
		}

		c.Locals("validatedApproval", reqData)
		return c.Next()
	}
}

func Resolve() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		requestID, err := strconv.Atoi(idStr)
		if err != nil || requestID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		reqData := new(ResolveRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"decision": "Decision must be approved or rejected!",
			})
		}

		c.Locals("approvalRequestID", requestID)
		c.Locals("validatedResolve", reqData)
		return c.Next()
	}
}
