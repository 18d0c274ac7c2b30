package models

import (
	"time"

	"gorm.io/gorm"
)

// Refund status enum values. Transitions: pending -> approved | rejected,
// approved -> processed. Approved/processed are terminal for the order.
const (
	RefundPending   = "pending"
	RefundApproved  = "approved"
	RefundRejected  = "rejected"
	RefundProcessed = "processed"
)

// Refund reason enum values
const (
	RefundReasonNotAsDescribed = "NOT_AS_DESCRIBED"
	RefundReasonQualityIssue   = "QUALITY_ISSUE"
	RefundReasonAccidental     = "ACCIDENTAL_PURCHASE"
	RefundReasonOther          = "OTHER"
)

// Refund is a refund request for an order. The unique index on OrderID
// guarantees at most one refund record per order.
type Refund struct {
	gorm.Model
	OrderID          uint       `gorm:"uniqueIndex;not null" json:"orderId"`
	UserID           uint       `gorm:"not null;index" json:"userId"`
	Amount           float64    `gorm:"not null" json:"amount"`
	Reason           string     `gorm:"type:varchar(30);not null" json:"reason"`
	Description      string     `gorm:"type:text" json:"description"`
	Status           string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	AdminNotes       string     `gorm:"type:text" json:"adminNotes"`
	ProcessedBy      *uint      `json:"processedBy"` // nil for auto-approved
	ProcessedAt      *time.Time `json:"processedAt"`
	ProviderRefundID string     `json:"providerRefundId"`

	Order Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (Refund) TableName() string {
	return "refunds"
}
