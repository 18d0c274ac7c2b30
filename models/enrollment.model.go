package models

import "gorm.io/gorm"

// Enrollment grants a user access to a course. One row per (user, course);
// settlement creates these idempotently.
type Enrollment struct {
	gorm.Model
	UserID   uint   `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"userId"`
	CourseID uint   `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"courseId"`
	Status   string `gorm:"default:'ENROLLED'" json:"status"` // ENROLLED, IN_PROGRESS, COMPLETED

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
