package models

import (
	"time"

	"gorm.io/gorm"
)

// InstructorEarning status enum values. Earnings are pending until the
// refund window closes, then available; paid once covered by a payout;
// reversed when the order is refunded before payout.
const (
	EarningPending   = "pending"
	EarningAvailable = "available"
	EarningPaid      = "paid"
	EarningReversed  = "reversed"
)

// InstructorEarning is created exactly once per order item at settlement.
// The unique index on OrderItemID is the idempotency guard.
type InstructorEarning struct {
	gorm.Model
	InstructorID uint       `gorm:"not null;index" json:"instructorId"`
	OrderID      uint       `gorm:"not null;index" json:"orderId"`
	OrderItemID  uint       `gorm:"uniqueIndex;not null" json:"orderItemId"`
	Amount       float64    `gorm:"not null" json:"amount"`      // instructor share
	PlatformFee  float64    `gorm:"not null" json:"platformFee"` // price * fee percent
	Status       string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	AvailableAt  *time.Time `json:"availableAt"` // when the hold period ends
	PayoutID     *uint      `gorm:"index" json:"payoutId"`
}

func (InstructorEarning) TableName() string {
	return "instructor_earnings"
}

// Payout status enum values
const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
	PayoutFailed  = "failed"
)

// Payout is an instructor's withdrawal request. Earnings move to paid only
// in the reconciliation step once the transfer is confirmed externally.
type Payout struct {
	gorm.Model
	InstructorID  uint       `gorm:"not null;index" json:"instructorId"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Reference     string     `gorm:"uniqueIndex;not null" json:"reference"`
	Status        string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ProcessedBy   *uint      `json:"processedBy"`
	ProcessedAt   *time.Time `json:"processedAt"`
	FailureReason string     `json:"failureReason"`
}
