package services

import (
	"edumart/apperrors"
	"edumart/models"
	"math"
)

// EffectivePrice returns the price a buyer actually pays for a course:
// the discount price when one is set, the list price otherwise.
func EffectivePrice(course models.Course) float64 {
	if course.DiscountPrice > 0 {
		return course.DiscountPrice
	}
	return course.Price
}

// BundlePrice computes the original (sum of effective prices) and
// discounted price for a set of courses.
func BundlePrice(courses []models.Course, discountPercent float64) (original, discounted float64, err error) {
	if len(courses) == 0 {
		return 0, 0, apperrors.Validation("bundle needs at least one course")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return 0, 0, apperrors.Validation("discount percent must be between 0 and 100")
	}

	for _, course := range courses {
		original += EffectivePrice(course)
	}
	original = round2(original)
	discounted = round2(original * (1 - discountPercent/100))
	return original, discounted, nil
}

// Savings is the amount a buyer saves by purchasing the bundle instead of
// the courses individually.
func Savings(bundle models.Bundle) float64 {
	return round2(bundle.OriginalPrice - bundle.BundlePrice)
}

// round2 rounds to two decimal places (currency precision).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
