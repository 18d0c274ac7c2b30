package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription status enum values (provider-aligned)
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
	SubscriptionExpired  = "expired"
)

// Subscription tracks a user's plan subscription. At most one non-terminal
// subscription per user; the partial unique index in database.runMigrations
// backstops the application-level check under concurrent subscribes.
type Subscription struct {
	gorm.Model
	UserID             uint       `gorm:"not null;index" json:"userId"`
	PlanID             uint       `gorm:"not null;index" json:"planId"`
	Status             string     `gorm:"not null;type:varchar(20);default:'active'" json:"status"`
	Interval           string     `gorm:"not null;type:varchar(10)" json:"interval"` // MONTHLY, YEARLY
	CurrentPeriodStart time.Time  `gorm:"not null" json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time  `gorm:"not null" json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool       `gorm:"default:false" json:"cancelAtPeriodEnd"`
	CanceledAt         *time.Time `json:"canceledAt"`
	ProviderSubID      string     `gorm:"index" json:"providerSubId"`
	ReminderSent       bool       `gorm:"default:false" json:"reminderSent"`

	Plan SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// IsTerminal reports whether the subscription has reached a final state.
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionCanceled || s.Status == SubscriptionExpired
}
