package earningsRoutes

import (
	controllers "edumart/controllers/earnings"
	"edumart/middleware"
	"edumart/models"
	validators "edumart/validators/earnings"

	"github.com/gofiber/fiber/v2"
)

// SetupEarningsRoutes sets up instructor earnings and payout routes
func SetupEarningsRoutes(app *fiber.App, earnings *controllers.EarningsController) {
	instructorGroup := app.Group("/instructor/earnings")
	instructorGroup.Get("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), earnings.MyStats)
	instructorGroup.Get("/payouts", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), earnings.MyPayouts)
	instructorGroup.Post("/payouts", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.RequestPayout(), earnings.RequestPayout)

	adminGroup := app.Group("/admin/payouts")
	adminGroup.Post("/:id/complete", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DecidePayout(), earnings.CompletePayout)
	adminGroup.Post("/:id/fail", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.DecidePayout(), earnings.FailPayout)
}
