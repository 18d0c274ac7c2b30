package subscriptionRoutes

import (
	controllers "edumart/controllers/subscription"
	"edumart/middleware"
	"edumart/models"
	validators "edumart/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

// SetupSubscriptionRoutes sets up plan and subscription lifecycle routes
func SetupSubscriptionRoutes(app *fiber.App, subs *controllers.SubscriptionController) {
	app.Get("/plans", subs.ListPlans)

	subGroup := app.Group("/subscription")
	subGroup.Get("/", middleware.JWTMiddleware, subs.MySubscription)
	subGroup.Post("/subscribe", middleware.JWTMiddleware, validators.Subscribe(), subs.Subscribe)
	subGroup.Post("/cancel", middleware.JWTMiddleware, subs.Cancel)
	subGroup.Post("/resume", middleware.JWTMiddleware, subs.Resume)
	subGroup.Post("/change-plan", middleware.JWTMiddleware, validators.ChangePlan(), subs.ChangePlan)

	adminGroup := app.Group("/admin/plans")
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CreatePlan(), subs.CreatePlan)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.UpdatePlan(), subs.UpdatePlan)
}
