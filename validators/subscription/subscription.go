package subscriptionValidator

import (
	"edumart/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type SubscribeRequest struct {
	PlanSlug string `json:"planSlug" validate:"required,min=2,max=100"`
	Interval string `json:"interval" validate:"required,oneof=MONTHLY YEARLY"`
}

// Subscribe validates the subscribe request body
func Subscribe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubscribeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.PlanSlug = strings.TrimSpace(reqData.PlanSlug)
		reqData.Interval = strings.ToUpper(strings.TrimSpace(reqData.Interval))

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "PlanSlug":
					errors["planSlug"] = "Plan slug is required!"
				case "Interval":
					errors["interval"] = "Interval must be MONTHLY or YEARLY!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubscribe", reqData)
		return c.Next()
	}
}

type ChangePlanRequest struct {
	PlanSlug string `json:"planSlug" validate:"required,min=2,max=100"`
}

// ChangePlan validates the change-plan request body
func ChangePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePlanRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.PlanSlug = strings.TrimSpace(reqData.PlanSlug)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"planSlug": "Plan slug is required!"})
		}

		c.Locals("validatedChangePlan", reqData)
		return c.Next()
	}
}

type CreatePlanRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Slug         string   `json:"slug" validate:"max=100"`
	MonthlyPrice float64  `json:"monthlyPrice" validate:"gte=0"`
	YearlyPrice  float64  `json:"yearlyPrice" validate:"gte=0"`
	Features     []string `json:"features" validate:"max=50,dive,max=200"`
	MaxCourses   *int     `json:"maxCourses" validate:"omitempty,gt=0"`
}

// CreatePlan validates the admin plan creation request
func CreatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePlanRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Slug = strings.TrimSpace(reqData.Slug)

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Name":
					errors["name"] = "Name must be between 2 and 100 characters!"
				case "MonthlyPrice":
					errors["monthlyPrice"] = "Monthly price cannot be negative!"
				case "YearlyPrice":
					errors["yearlyPrice"] = "Yearly price cannot be negative!"
				case "MaxCourses":
					errors["maxCourses"] = "Max courses must be a positive number!"
				default:
					errors["features"] = "Features are invalid!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreatePlan", reqData)
		return c.Next()
	}
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=2,max=100"`
	MonthlyPrice *float64 `json:"monthlyPrice" validate:"omitempty,gte=0"`
	YearlyPrice  *float64 `json:"yearlyPrice" validate:"omitempty,gte=0"`
	Features     []string `json:"features" validate:"omitempty,max=50,dive,max=200"`
	MaxCourses   *int     `json:"maxCourses" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive"`
}

// UpdatePlan validates the admin plan update request
func UpdatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		planID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || planID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Plan ID!", nil)
		}

		reqData := new(UpdatePlanRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"plan": "Plan fields are invalid!"})
		}

		c.Locals("planID", uint(planID))
		c.Locals("validatedUpdatePlan", reqData)
		return c.Next()
	}
}
