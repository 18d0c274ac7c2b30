package subscriptionController

import (
	"edumart/middleware"
	"edumart/services"
	subscriptionValidator "edumart/validators/subscription"

	"github.com/gofiber/fiber/v2"
)

// SubscriptionController serves plan listing and the user subscription
// lifecycle.
type SubscriptionController struct {
	subs *services.SubscriptionService
}

func NewSubscriptionController(subs *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subs: subs}
}

func (ctl *SubscriptionController) ListPlans(c *fiber.Ctx) error {
	plans, err := ctl.subs.ListPlans(false)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plans fetched successfully!", plans)
}

func (ctl *SubscriptionController) CreatePlan(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCreatePlan").(*subscriptionValidator.CreatePlanRequest)

	plan, err := ctl.subs.CreatePlan(reqData.Name, reqData.Slug, reqData.MonthlyPrice, reqData.YearlyPrice,
		reqData.Features, reqData.MaxCourses)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Plan created successfully!", plan)
}

func (ctl *SubscriptionController) UpdatePlan(c *fiber.Ctx) error {
	planID := c.Locals("planID").(uint)
	reqData := c.Locals("validatedUpdatePlan").(*subscriptionValidator.UpdatePlanRequest)

	plan, err := ctl.subs.UpdatePlan(planID, services.PlanUpdate{
		Name:         reqData.Name,
		MonthlyPrice: reqData.MonthlyPrice,
		YearlyPrice:  reqData.YearlyPrice,
		Features:     reqData.Features,
		MaxCourses:   reqData.MaxCourses,
		IsActive:     reqData.IsActive,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan updated successfully!", plan)
}

func (ctl *SubscriptionController) MySubscription(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sub, err := ctl.subs.GetForUser(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription fetched successfully!", sub)
}

func (ctl *SubscriptionController) Subscribe(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedSubscribe").(*subscriptionValidator.SubscribeRequest)

	sub, err := ctl.subs.Subscribe(userID, reqData.PlanSlug, reqData.Interval)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscribed successfully!", sub)
}

func (ctl *SubscriptionController) Cancel(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sub, err := ctl.subs.Cancel(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription will end at the period close!", sub)
}

func (ctl *SubscriptionController) Resume(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sub, err := ctl.subs.Resume(userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscription resumed!", sub)
}

func (ctl *SubscriptionController) ChangePlan(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedChangePlan").(*subscriptionValidator.ChangePlanRequest)

	sub, err := ctl.subs.ChangePlan(userID, reqData.PlanSlug)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Plan changed successfully!", sub)
}
