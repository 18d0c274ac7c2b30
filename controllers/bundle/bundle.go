package bundleController

import (
	"edumart/middleware"
	"edumart/models"
	"edumart/services"
	bundleValidator "edumart/validators/bundle"

	"github.com/gofiber/fiber/v2"
)

// BundleController serves public bundle browsing, admin bundle
// management, and the bundle purchase flow.
type BundleController struct {
	bundles *services.BundleService
	users   userLoader
}

type userLoader interface {
	GetByID(id uint) (*models.User, error)
}

func NewBundleController(bundles *services.BundleService, users userLoader) *BundleController {
	return &BundleController{bundles: bundles, users: users}
}

func (ctl *BundleController) List(c *fiber.Ctx) error {
	bundles, err := ctl.bundles.List(false)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bundles fetched successfully!", bundles)
}

func (ctl *BundleController) Get(c *fiber.Ctx) error {
	bundle, err := ctl.bundles.Get(c.Params("slug"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bundle fetched successfully!", fiber.Map{
		"bundle":  bundle,
		"savings": services.Savings(*bundle),
	})
}

func (ctl *BundleController) Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCreateBundle").(*bundleValidator.CreateBundleRequest)

	bundle, err := ctl.bundles.CreateBundle(reqData.Title, reqData.Description, reqData.CourseIDs,
		reqData.DiscountPercent, reqData.StartDate, reqData.EndDate, reqData.MaxPurchases)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bundle created successfully!", bundle)
}

func (ctl *BundleController) Update(c *fiber.Ctx) error {
	bundleID := c.Locals("bundleID").(uint)
	reqData := c.Locals("validatedUpdateBundle").(*bundleValidator.UpdateBundleRequest)

	bundle, err := ctl.bundles.UpdateBundle(bundleID, services.BundleUpdate{
		Title:           reqData.Title,
		Description:     reqData.Description,
		DiscountPercent: reqData.DiscountPercent,
		IsActive:        reqData.IsActive,
		StartDate:       reqData.StartDate,
		EndDate:         reqData.EndDate,
		MaxPurchases:    reqData.MaxPurchases,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bundle updated successfully!", bundle)
}

func (ctl *BundleController) AddCourse(c *fiber.Ctx) error {
	bundleID := c.Locals("bundleID").(uint)
	courseID := c.Locals("courseID").(uint)

	bundle, err := ctl.bundles.AddCourse(bundleID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course added to bundle!", bundle)
}

func (ctl *BundleController) RemoveCourse(c *fiber.Ctx) error {
	bundleID := c.Locals("bundleID").(uint)
	courseID := c.Locals("courseID").(uint)

	bundle, err := ctl.bundles.RemoveCourse(bundleID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course removed from bundle!", bundle)
}

func (ctl *BundleController) Purchase(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	user, err := ctl.users.GetByID(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	bundleID := c.Locals("bundleID").(uint)

	order, session, err := ctl.bundles.PurchaseBundle(userID, bundleID, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	data := fiber.Map{"order": order}
	if session != nil {
		data["checkoutUrl"] = session.URL
	}
	message := "Checkout session created!"
	if session == nil {
		message = "Bundle purchased!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, data)
}
