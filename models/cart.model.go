package models

import "gorm.io/gorm"

// Cart holds candidate purchases. Owned by a user or, pre-login, by an
// anonymous session; guest carts are merged into the user cart on login.
type Cart struct {
	gorm.Model
	UserID    *uint  `gorm:"index" json:"userId"`
	SessionID string `gorm:"index" json:"sessionId"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// CartItem is one course in a cart. The unique index makes AddItem
// idempotent per (cart, course).
type CartItem struct {
	gorm.Model
	CartID   uint `gorm:"not null;uniqueIndex:idx_cart_course" json:"cartId"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_cart_course" json:"courseId"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
