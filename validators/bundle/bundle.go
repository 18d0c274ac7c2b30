package bundleValidator

import (
	"edumart/middleware"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateBundleRequest struct {
	Title           string     `json:"title" validate:"required,min=3,max=200"`
	Description     string     `json:"description" validate:"max=2000"`
	CourseIDs       []uint     `json:"courseIds" validate:"required,min=1,max=50,dive,gt=0"`
	DiscountPercent float64    `json:"discountPercent" validate:"gte=0,lte=100"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	MaxPurchases    *int       `json:"maxPurchases" validate:"omitempty,gt=0"`
}

// CreateBundle validates the admin bundle creation request
func CreateBundle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateBundleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := make(map[string]string)
		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title must be between 3 and 200 characters!"
				case "CourseIDs":
					errors["courseIds"] = "At least one valid course ID is required!"
				case "DiscountPercent":
					errors["discountPercent"] = "Discount percent must be between 0 and 100!"
				case "MaxPurchases":
					errors["maxPurchases"] = "Max purchases must be a positive number!"
				default:
					errors["bundle"] = "Bundle fields are invalid!"
				}
			}
		}
		if reqData.StartDate != nil && reqData.EndDate != nil && reqData.EndDate.Before(*reqData.StartDate) {
			errors["endDate"] = "End date must be after start date!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateBundle", reqData)
		return c.Next()
	}
}

type UpdateBundleRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=2000"`
	DiscountPercent *float64   `json:"discountPercent" validate:"omitempty,gte=0,lte=100"`
	IsActive        *bool      `json:"isActive"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	MaxPurchases    *int       `json:"maxPurchases" validate:"omitempty,gte=0"`
}

// UpdateBundle validates the admin bundle update request
func UpdateBundle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bundleID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || bundleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Bundle ID!", nil)
		}

		reqData := new(UpdateBundleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"bundle": "Bundle fields are invalid!"})
		}

		c.Locals("bundleID", uint(bundleID))
		c.Locals("validatedUpdateBundle", reqData)
		return c.Next()
	}
}

// BundleCourseParams validates :id and :courseId path parameters
func BundleCourseParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bundleID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || bundleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Bundle ID!", nil)
		}
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("courseId")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("bundleID", uint(bundleID))
		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

// BundleIDParam validates the :id path parameter
func BundleIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bundleID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || bundleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Bundle ID!", nil)
		}
		c.Locals("bundleID", uint(bundleID))
		return c.Next()
	}
}
