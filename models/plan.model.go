package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Billing interval enum values
const (
	IntervalMonthly = "MONTHLY"
	IntervalYearly  = "YEARLY"
)

// SubscriptionPlan is a purchasable plan. Price changes never touch live
// subscriptions; they only apply to new periods negotiated with the provider.
type SubscriptionPlan struct {
	gorm.Model
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	MonthlyPrice float64        `gorm:"not null;default:0" json:"monthlyPrice"`
	YearlyPrice  float64        `gorm:"not null;default:0" json:"yearlyPrice"`
	Features     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"features"`
	MaxCourses   *int           `json:"maxCourses"` // nil = unlimited
	IsActive     bool           `gorm:"default:true" json:"isActive"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// Price returns the plan price for the given billing interval.
func (p *SubscriptionPlan) Price(interval string) float64 {
	if interval == IntervalYearly {
		return p.YearlyPrice
	}
	return p.MonthlyPrice
}
