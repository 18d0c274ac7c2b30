package bundleRoutes

import (
	controllers "edumart/controllers/bundle"
	"edumart/middleware"
	"edumart/models"
	validators "edumart/validators/bundle"

	"github.com/gofiber/fiber/v2"
)

// SetupBundleRoutes sets up public bundle browsing, purchase, and admin
// bundle management routes
func SetupBundleRoutes(app *fiber.App, bundles *controllers.BundleController) {
	bundleGroup := app.Group("/bundles")
	bundleGroup.Get("/", bundles.List)
	bundleGroup.Get("/:slug", bundles.Get)
	bundleGroup.Post("/:id/purchase", middleware.JWTMiddleware, validators.BundleIDParam(), bundles.Purchase)

	adminGroup := app.Group("/admin/bundles")
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CreateBundle(), bundles.Create)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.UpdateBundle(), bundles.Update)
	adminGroup.Post("/:id/course/:courseId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.BundleCourseParams(), bundles.AddCourse)
	adminGroup.Delete("/:id/course/:courseId", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.BundleCourseParams(), bundles.RemoveCourse)
}
