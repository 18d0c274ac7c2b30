package models

import "gorm.io/gorm"

// Course status enum values
const (
	CourseDraft     = "DRAFT"
	CoursePublished = "PUBLISHED"
	CourseArchived  = "ARCHIVED"
)

// Course represents a learning course. Only the fields the billing core
// reads are modelled; content lives elsewhere.
type Course struct {
	gorm.Model
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	InstructorID  uint    `gorm:"not null;index" json:"instructorId"`
	Price         float64 `gorm:"not null;default:0" json:"price"`
	DiscountPrice float64 `gorm:"default:0" json:"discountPrice"` // 0 = no discount
	Status        string  `gorm:"default:'DRAFT'" json:"status"`  // DRAFT, PUBLISHED, ARCHIVED
	IsDeleted     bool    `gorm:"default:false" json:"isDeleted"`
}
