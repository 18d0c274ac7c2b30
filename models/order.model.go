package models

import "gorm.io/gorm"

// Order status enum values
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderRefunded  = "refunded"
	OrderFailed    = "failed"
)

// Order is a purchase of one or more courses (or a bundle). Settlement
// (pending -> completed) is status-guarded so duplicate provider webhooks
// cannot double-apply side effects.
type Order struct {
	gorm.Model
	UserID            uint    `gorm:"not null;index" json:"userId"`
	OrderNumber       string  `gorm:"uniqueIndex;not null" json:"orderNumber"`
	Subtotal          float64 `gorm:"not null;default:0" json:"subtotal"`
	Discount          float64 `gorm:"not null;default:0" json:"discount"`
	Total             float64 `gorm:"not null;default:0" json:"total"` // subtotal - discount
	Status            string  `gorm:"not null;type:varchar(20);default:'pending'" json:"status"`
	BundleID          *uint   `gorm:"index" json:"bundleId"` // set for bundle purchases
	ProviderSessionID string  `gorm:"index" json:"providerSessionId"`
	ProviderPaymentID string  `json:"providerPaymentId"` // filled at settlement

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is one purchased course within an order. InstructorShare is the
// item price minus the platform fee, frozen at purchase time.
type OrderItem struct {
	gorm.Model
	OrderID         uint    `gorm:"not null;index" json:"orderId"`
	CourseID        uint    `gorm:"not null;index" json:"courseId"`
	InstructorID    uint    `gorm:"not null;index" json:"instructorId"`
	Price           float64 `gorm:"not null" json:"price"`
	InstructorShare float64 `gorm:"not null" json:"instructorShare"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
