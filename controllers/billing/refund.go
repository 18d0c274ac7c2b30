package billingController

import (
	"edumart/middleware"
	"edumart/services"
	billingValidator "edumart/validators/billing"

	"github.com/gofiber/fiber/v2"
)

// RefundController serves user refund requests and admin refund decisions.
type RefundController struct {
	refunds *services.RefundService
}

func NewRefundController(refunds *services.RefundService) *RefundController {
	return &RefundController{refunds: refunds}
}

func (ctl *RefundController) RequestRefund(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedRefund").(*billingValidator.RefundRequest)

	refund, err := ctl.refunds.RequestRefund(userID, reqData.OrderID, reqData.Reason, reqData.Description)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refund request submitted!", refund)
}

func (ctl *RefundController) MyRefunds(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	refunds, err := ctl.refunds.ListByUser(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refunds fetched successfully!", refunds)
}

func (ctl *RefundController) ListPending(c *fiber.Ctx) error {
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)

	refunds, total, err := ctl.refunds.ListPending(page, limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending refunds fetched successfully!", fiber.Map{
		"refunds": refunds,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func (ctl *RefundController) Approve(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	refundID := c.Locals("refundID").(uint)
	reqData := c.Locals("validatedRefundDecision").(*billingValidator.RefundDecisionRequest)

	refund, err := ctl.refunds.Approve(refundID, adminID, reqData.Notes)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refund approved!", refund)
}

func (ctl *RefundController) Reject(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	refundID := c.Locals("refundID").(uint)
	reqData := c.Locals("validatedRefundDecision").(*billingValidator.RefundDecisionRequest)

	refund, err := ctl.refunds.Reject(refundID, adminID, reqData.Notes)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refund rejected!", refund)
}

func (ctl *RefundController) MarkProcessed(c *fiber.Ctx) error {
	refundID := c.Locals("refundID").(uint)

	refund, err := ctl.refunds.MarkProcessed(refundID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Refund marked as processed!", refund)
}
