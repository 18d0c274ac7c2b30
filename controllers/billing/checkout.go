package billingController

import (
	"edumart/middleware"
	"edumart/models"
	"edumart/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutController serves checkout and order routes.
type CheckoutController struct {
	checkout *services.CheckoutService
	store    userLoader
}

type userLoader interface {
	GetByID(id uint) (*models.User, error)
}

func NewCheckoutController(checkout *services.CheckoutService, users userLoader) *CheckoutController {
	return &CheckoutController{checkout: checkout, store: users}
}

func (ctl *CheckoutController) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	user, err := ctl.store.GetByID(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	order, session, err := ctl.checkout.Checkout(userID, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	data := fiber.Map{"order": order}
	if session != nil {
		data["checkoutUrl"] = session.URL
	}
	message := "Checkout session created!"
	if session == nil {
		message = "Order completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}

func (ctl *CheckoutController) GetOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	orderID := c.Locals("orderID").(uint)

	order, err := ctl.checkout.GetOrder(userID, orderID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched successfully!", order)
}

func (ctl *CheckoutController) ListOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)

	orders, total, err := ctl.checkout.ListOrders(userID, page, limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
