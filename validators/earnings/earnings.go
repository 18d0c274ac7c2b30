package earningsValidator

import (
	"edumart/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type PayoutRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// RequestPayout validates the payout request body
func RequestPayout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PayoutRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"amount": "Amount must be a positive number!"})
		}

		c.Locals("validatedPayout", reqData)
		return c.Next()
	}
}

type PayoutDecisionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// DecidePayout validates the admin payout complete/fail request
func DecidePayout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payoutID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || payoutID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payout ID!", nil)
		}

		reqData := new(PayoutDecisionRequest)
		// Reason is only needed when failing a payout; an empty body is fine.
		_ = c.BodyParser(reqData)
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"reason": "Reason is too long!"})
		}

		c.Locals("payoutID", uint(payoutID))
		c.Locals("validatedPayoutDecision", reqData)
		return c.Next()
	}
}
