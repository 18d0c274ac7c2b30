package billingController

import (
	"edumart/middleware"
	"edumart/services"
	billingValidator "edumart/validators/billing"

	"github.com/gofiber/fiber/v2"
)

// CartController serves cart routes for both logged-in users and guests.
// Guests are identified by the X-Session-Id header.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func identity(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals("userId").(uint)
	return userID, c.Get("X-Session-Id")
}

func (ctl *CartController) GetCart(c *fiber.Ctx) error {
	userID, sessionID := identity(c)
	if userID == 0 && sessionID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Login or X-Session-Id header required!", nil)
	}

	cart, err := ctl.carts.GetOrCreate(userID, sessionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart fetched successfully!", fiber.Map{
		"cart":     cart,
		"subtotal": ctl.carts.Totals(cart),
	})
}

func (ctl *CartController) AddItem(c *fiber.Ctx) error {
	userID, sessionID := identity(c)
	if userID == 0 && sessionID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Login or X-Session-Id header required!", nil)
	}
	reqData := c.Locals("validatedCartItem").(*billingValidator.CartItemRequest)

	cart, err := ctl.carts.AddItem(userID, sessionID, reqData.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course added to cart!", fiber.Map{
		"cart":     cart,
		"subtotal": ctl.carts.Totals(cart),
	})
}

func (ctl *CartController) RemoveItem(c *fiber.Ctx) error {
	userID, sessionID := identity(c)
	courseID := c.Locals("courseID").(uint)

	cart, err := ctl.carts.RemoveItem(userID, sessionID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course removed from cart!", fiber.Map{
		"cart":     cart,
		"subtotal": ctl.carts.Totals(cart),
	})
}

// MergeCart folds the guest session cart into the logged-in user's cart.
// Called right after login.
func (ctl *CartController) MergeCart(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	sessionID := c.Get("X-Session-Id")
	if sessionID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "X-Session-Id header required!", nil)
	}

	cart, err := ctl.carts.MergeGuestCart(sessionID, userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cart merged successfully!", fiber.Map{
		"cart":     cart,
		"subtotal": ctl.carts.Totals(cart),
	})
}
