package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent is the processed-event ledger for provider webhooks. The
// unique index on ProviderEventID makes replayed deliveries no-ops.
type WebhookEvent struct {
	gorm.Model
	ProviderEventID string         `gorm:"uniqueIndex;not null" json:"providerEventId"`
	EventType       string         `gorm:"not null;index" json:"eventType"`
	Payload         datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"payload"`
	ProcessedAt     time.Time      `gorm:"not null" json:"processedAt"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
