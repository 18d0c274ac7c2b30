package models

import (
	"time"

	"gorm.io/gorm"
)

// Bundle is a fixed set of courses sold at a discount. OriginalPrice is the
// sum of the constituent courses' effective prices; BundlePrice is derived
// from it and recomputed whenever the course set or discount changes.
type Bundle struct {
	gorm.Model
	Slug            string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	OriginalPrice   float64    `gorm:"not null;default:0" json:"originalPrice"`
	BundlePrice     float64    `gorm:"not null;default:0" json:"bundlePrice"`
	DiscountPercent float64    `gorm:"not null;default:0" json:"discountPercent"`
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	MaxPurchases    *int       `json:"maxPurchases"` // nil = uncapped
	PurchaseCount   int        `gorm:"not null;default:0" json:"purchaseCount"`

	Courses []BundleCourse `gorm:"foreignKey:BundleID" json:"courses,omitempty"`
}

// BundleCourse links a course into a bundle with explicit ordering.
type BundleCourse struct {
	gorm.Model
	BundleID uint `gorm:"not null;uniqueIndex:idx_bundle_course" json:"bundleId"`
	CourseID uint `gorm:"not null;uniqueIndex:idx_bundle_course" json:"courseId"`
	Position int  `gorm:"not null;default:0" json:"position"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// BundlePurchase is the append-only purchase log, written at settlement.
// One row per settled bundle order.
type BundlePurchase struct {
	gorm.Model
	BundleID  uint    `gorm:"not null;index" json:"bundleId"`
	UserID    uint    `gorm:"not null;index" json:"userId"`
	OrderID   uint    `gorm:"uniqueIndex;not null" json:"orderId"`
	PricePaid float64 `gorm:"not null" json:"pricePaid"`
}
