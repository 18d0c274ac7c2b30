package billingValidator

import (
	"edumart/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CartItemRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

// AddCartItem validates the add-to-cart request body
func AddCartItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CartItemRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := map[string]string{"courseId": "A valid course ID is required!"}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCartItem", reqData)
		return c.Next()
	}
}

// CourseIDParam validates the :courseId path parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("courseId")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

// OrderIDParam validates the :id path parameter on order routes
func OrderIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || orderID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Order ID!", nil)
		}
		c.Locals("orderID", uint(orderID))
		return c.Next()
	}
}

type RefundRequest struct {
	OrderID     uint   `json:"orderId" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required,oneof=NOT_AS_DESCRIBED QUALITY_ISSUE ACCIDENTAL_PURCHASE OTHER"`
	Description string `json:"description" validate:"max=1000"`
}

// RequestRefund validates the refund request body
func RequestRefund() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RefundRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "OrderID":
					errors["orderId"] = "A valid order ID is required!"
				case "Reason":
					errors["reason"] = "Reason must be one of NOT_AS_DESCRIBED, QUALITY_ISSUE, ACCIDENTAL_PURCHASE, OTHER!"
				case "Description":
					errors["description"] = "Description is too long!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRefund", reqData)
		return c.Next()
	}
}

type RefundDecisionRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// DecideRefund validates the admin approve/reject request
func DecideRefund() fiber.Handler {
	return func(c *fiber.Ctx) error {
		refundID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || refundID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Refund ID!", nil)
		}

		reqData := new(RefundDecisionRequest)
		// Notes are optional; an empty body is fine.
		_ = c.BodyParser(reqData)
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"notes": "Notes are too long!"})
		}

		c.Locals("refundID", uint(refundID))
		c.Locals("validatedRefundDecision", reqData)
		return c.Next()
	}
}

// Pagination validates optional page/limit query parameters
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		if page <= 0 {
			page = 1
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		c.Locals("page", page)
		c.Locals("limit", limit)
		return c.Next()
	}
}
