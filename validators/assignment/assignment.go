package assignmentValidator

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"futureminds/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateAssignmentRequest struct {
	ClassID     uint   `json:"class_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty"`
	XPReward    int    `json:"xp_reward" validate:"gte=0,lte=10000"`

	ParsedDueDate *time.Time `json:"-"`
}

// GradeRequest bounds match the grading contract: feedback up to 2000
// characters, XP award within [0, 10000]. XPAwarded is a pointer so a
// missing field is distinguishable from an explicit zero.
type GradeRequest struct {
	Feedback  string `json:"feedback"`
	XPAwarded *int   `json:"xp_awarded"`
}

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssignmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "ClassID":
					errors["class_id"] = "Class ID is required!"
				case "Title":
					errors["title"] = "Title is required and must be less than 200 characters!"
				case "XPReward":
					errors["xp_reward"] = "XP reward must be between 0 and 10000!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.DueDate != "" {
			dueDate, err := time.Parse(time.RFC3339, reqData.DueDate)
			if err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"due_date": "Due date must be an RFC3339 timestamp!",
				})
			}
			reqData.ParsedDueDate = &dueDate
		}

		c.Locals("validatedCreateAssignment", reqData)
		return c.Next()
	}
}

func AssignmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assignment ID is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
		}

		c.Locals("assignmentID", id)
		return c.Next()
	}
}

// Grade validates grading input before any mutation happens. Both fields are
// checked so a single request reports every violation at once.
func Grade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		submissionID, err := strconv.Atoi(idStr)
		if err != nil || submissionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Submission ID!", nil)
		}

		reqData := new(GradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Feedback = strings.TrimSpace(reqData.Feedback)
		if utf8.RuneCountInString(reqData.Feedback) > 2000 {
			errors["feedback"] = "Feedback must be less than 2000 characters!"
		}

		if reqData.XPAwarded == nil {
			errors["xp_awarded"] = "XP award is required!"
		} else if *reqData.XPAwarded < 0 {
			errors["xp_awarded"] = "XP cannot be negative!"
		} else if *reqData.XPAwarded > 10000 {
			errors["xp_awarded"] = "XP cannot exceed 10000!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("gradeSubmissionID", submissionID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
