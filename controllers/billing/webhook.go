package billingController

import (
	"log"

	"edumart/payment"
	"edumart/services"

	"github.com/gofiber/fiber/v2"
)

// WebhookController receives payment provider webhooks. Order-correlated
// events settle or fail orders; everything else goes through the
// subscription event handler. A handler error returns 500 so the provider
// redelivers; the event ledger makes redelivery safe.
type WebhookController struct {
	checkout *services.CheckoutService
	subs     *services.SubscriptionService
}

func NewWebhookController(checkout *services.CheckoutService, subs *services.SubscriptionService) *WebhookController {
	return &WebhookController{checkout: checkout, subs: subs}
}

func (ctl *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	event, err := payment.ParseWebhookEvent(c.Body())
	if err != nil {
		log.Printf("[WEBHOOK] Rejected malformed payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"received": false})
	}

	if orderID := event.OrderID(); orderID != 0 {
		switch event.Type {
		case payment.EventCheckoutCompleted, payment.EventPaymentSucceeded:
			err = ctl.checkout.OnPaymentConfirmed(orderID, event.ObjectID)
		case payment.EventPaymentFailed:
			err = ctl.checkout.OnPaymentFailed(orderID)
		default:
			err = ctl.subs.HandleWebhookEvent(event)
		}
	} else {
		err = ctl.subs.HandleWebhookEvent(event)
	}
	if err != nil {
		log.Printf("[WEBHOOK] Processing event %s (%s) failed: %v", event.ID, event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"received": false})
	}

	return c.JSON(fiber.Map{"received": true})
}
