package payment

import (
	"encoding/json"
	"fmt"
	"time"
)

// Webhook event types the billing core reacts to. Unknown types are
// recorded and ignored, never errors.
const (
	EventCheckoutCompleted   = "checkout.completed"
	EventPaymentSucceeded    = "payment.succeeded"
	EventPaymentFailed       = "payment.failed"
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// WebhookEvent is the normalized form of a provider webhook delivery.
// Signature verification happens upstream; handlers treat the event as
// already authenticated but must tolerate replays and reordering.
type WebhookEvent struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	ObjectID string            `json:"object_id"` // provider session/payment/subscription id
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`

	// Subscription period fields (unix seconds), zero when absent.
	PeriodStart       int64 `json:"period_start"`
	PeriodEnd         int64 `json:"period_end"`
	CancelAtPeriodEnd bool  `json:"cancel_at_period_end"`

	Raw json.RawMessage `json:"-"`
}

// PeriodStartTime returns the event's period start, zero time when unset.
func (e *WebhookEvent) PeriodStartTime() time.Time {
	if e.PeriodStart == 0 {
		return time.Time{}
	}
	return time.Unix(e.PeriodStart, 0)
}

func (e *WebhookEvent) PeriodEndTime() time.Time {
	if e.PeriodEnd == 0 {
		return time.Time{}
	}
	return time.Unix(e.PeriodEnd, 0)
}

// OrderID extracts the correlated internal order id from metadata, 0 when
// the event is not order-scoped.
func (e *WebhookEvent) OrderID() uint {
	raw, ok := e.Metadata["order_id"]
	if !ok {
		return 0
	}
	var id uint
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
		return 0
	}
	return id
}

type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			Status            string            `json:"status"`
			Metadata          map[string]string `json:"metadata"`
			PeriodStart       int64             `json:"current_period_start"`
			PeriodEnd         int64             `json:"current_period_end"`
			CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a provider webhook body into a WebhookEvent.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}
	if envelope.ID == "" || envelope.Type == "" {
		return nil, fmt.Errorf("parse webhook payload: missing event id or type")
	}

	return &WebhookEvent{
		ID:                envelope.ID,
		Type:              envelope.Type,
		ObjectID:          envelope.Data.Object.ID,
		Status:            envelope.Data.Object.Status,
		Metadata:          envelope.Data.Object.Metadata,
		PeriodStart:       envelope.Data.Object.PeriodStart,
		PeriodEnd:         envelope.Data.Object.PeriodEnd,
		CancelAtPeriodEnd: envelope.Data.Object.CancelAtPeriodEnd,
		Raw:               json.RawMessage(body),
	}, nil
}
