package billingRoutes

import (
	controllers "edumart/controllers/billing"
	"edumart/middleware"
	"edumart/models"
	validators "edumart/validators/billing"

	"github.com/gofiber/fiber/v2"
)

// SetupBillingRoutes sets up cart, checkout, order, refund and webhook routes
func SetupBillingRoutes(app *fiber.App, carts *controllers.CartController, checkout *controllers.CheckoutController,
	refunds *controllers.RefundController, webhooks *controllers.WebhookController) {

	cartGroup := app.Group("/cart")
	cartGroup.Get("/", middleware.OptionalJWT, carts.GetCart)
	cartGroup.Post("/items", middleware.OptionalJWT, validators.AddCartItem(), carts.AddItem)
	cartGroup.Delete("/items/:courseId", middleware.OptionalJWT, validators.CourseIDParam(), carts.RemoveItem)
	cartGroup.Post("/merge", middleware.JWTMiddleware, carts.MergeCart)

	app.Post("/checkout", middleware.JWTMiddleware, checkout.Checkout)

	orderGroup := app.Group("/orders")
	orderGroup.Get("/", middleware.JWTMiddleware, validators.Pagination(), checkout.ListOrders)
	orderGroup.Get("/:id", middleware.JWTMiddleware, validators.OrderIDParam(), checkout.GetOrder)

	refundGroup := app.Group("/refunds")
	refundGroup.Post("/", middleware.JWTMiddleware, validators.RequestRefund(), refunds.RequestRefund)
	refundGroup.Get("/my", middleware.JWTMiddleware, refunds.MyRefunds)

	adminGroup := app.Group("/admin/refunds")
	adminGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.Pagination(), refunds.ListPending)
	adminGroup.Post("/:id/approve", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DecideRefund(), refunds.Approve)
	adminGroup.Post("/:id/reject", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DecideRefund(), refunds.Reject)
	adminGroup.Post("/:id/processed", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DecideRefund(), refunds.MarkProcessed)

	// Provider webhooks carry their own authentication; no JWT here.
	app.Post("/webhooks/payment", webhooks.HandleWebhook)
}
