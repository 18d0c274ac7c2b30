package earningsController

import (
	"edumart/middleware"
	"edumart/services"
	earningsValidator "edumart/validators/earnings"

	"github.com/gofiber/fiber/v2"
)

// EarningsController serves instructor earnings dashboards and the payout
// request/reconciliation flow.
type EarningsController struct {
	earnings *services.EarningsService
}

func NewEarningsController(earnings *services.EarningsService) *EarningsController {
	return &EarningsController{earnings: earnings}
}

func (ctl *EarningsController) MyStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stats, err := ctl.earnings.GetInstructorStats(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Earnings fetched successfully!", stats)
}

func (ctl *EarningsController) MyPayouts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	payouts, err := ctl.earnings.ListPayouts(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payouts fetched successfully!", payouts)
}

func (ctl *EarningsController) RequestPayout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedPayout").(*earningsValidator.PayoutRequest)

	payout, err := ctl.earnings.RequestPayout(userID, reqData.Amount)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payout requested successfully!", payout)
}

func (ctl *EarningsController) CompletePayout(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	payoutID := c.Locals("payoutID").(uint)

	if err := ctl.earnings.CompletePayout(payoutID, adminID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payout marked as paid!", nil)
}

func (ctl *EarningsController) FailPayout(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	payoutID := c.Locals("payoutID").(uint)
	reqData := c.Locals("validatedPayoutDecision").(*earningsValidator.PayoutDecisionRequest)

	if err := ctl.earnings.FailPayout(payoutID, adminID, reqData.Reason); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payout marked as failed!", nil)
}
