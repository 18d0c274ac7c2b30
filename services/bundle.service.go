package services

import (
	"fmt"
	"log"
	"time"

	"edumart/apperrors"
	"edumart/models"
	"edumart/payment"
	"edumart/repository"
)

// BundleService manages discounted course bundles and their purchase flow.
// Bundle prices are derived: changing the course set or the discount
// recomputes them, never the other way round.
type BundleService struct {
	store    repository.Store
	payments payment.Client
	earnings *EarningsService
	checkout *CheckoutService
	currency string
}

func NewBundleService(store repository.Store, payments payment.Client, earnings *EarningsService, checkout *CheckoutService, currency string) *BundleService {
	return &BundleService{
		store:    store,
		payments: payments,
		earnings: earnings,
		checkout: checkout,
		currency: currency,
	}
}

// BundleUpdate carries partial bundle changes; nil fields are left untouched.
type BundleUpdate struct {
	Title             *string
	Description       *string
	DiscountPercent   *float64
	IsActive          *bool
	StartDate         *time.Time
	EndDate           *time.Time
	MaxPurchases      *int
	ClearMaxPurchases bool
}

func (s *BundleService) List(includeInactive bool) ([]models.Bundle, error) {
	return s.store.Bundles().List(!includeInactive)
}

func (s *BundleService) Get(slug string) (*models.Bundle, error) {
	return s.store.Bundles().GetBySlug(slug)
}

// CreateBundle assembles a bundle from published courses and prices it
// from their effective prices and the discount percent.
func (s *BundleService) CreateBundle(title, description string, courseIDs []uint, discountPercent float64, startDate, endDate *time.Time, maxPurchases *int) (*models.Bundle, error) {
	courses, err := s.loadBundleCourses(courseIDs)
	if err != nil {
		return nil, err
	}
	original, discounted, err := BundlePrice(courses, discountPercent)
	if err != nil {
		return nil, err
	}

	slug := Slugify(title)
	if existing, err := s.store.Bundles().GetBySlug(slug); err == nil && existing != nil {
		return nil, apperrors.Conflict("a bundle with this slug already exists")
	} else if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	bundle := &models.Bundle{
		Slug:            slug,
		Title:           title,
		Description:     description,
		OriginalPrice:   original,
		BundlePrice:     discounted,
		DiscountPercent: discountPercent,
		IsActive:        true,
		StartDate:       startDate,
		EndDate:         endDate,
		MaxPurchases:    maxPurchases,
	}
	for i, course := range courses {
		bundle.Courses = append(bundle.Courses, models.BundleCourse{
			CourseID: course.ID,
			Position: i,
		})
	}
	if err := s.store.Bundles().Create(bundle); err != nil {
		return nil, err
	}
	log.Printf("[BUNDLE] Bundle %s created with %d courses (%.2f -> %.2f)",
		bundle.Slug, len(courses), original, discounted)
	return bundle, nil
}

func (s *BundleService) UpdateBundle(id uint, update BundleUpdate) (*models.Bundle, error) {
	bundle, err := s.store.Bundles().GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		bundle.Title = *update.Title
	}
	if update.Description != nil {
		bundle.Description = *update.Description
	}
	if update.DiscountPercent != nil {
		if *update.DiscountPercent < 0 || *update.DiscountPercent > 100 {
			return nil, apperrors.Validation("discount percent must be between 0 and 100")
		}
		bundle.DiscountPercent = *update.DiscountPercent
		bundle.BundlePrice = round2(bundle.OriginalPrice * (1 - bundle.DiscountPercent/100))
	}
	if update.IsActive != nil {
		bundle.IsActive = *update.IsActive
	}
	if update.StartDate != nil {
		bundle.StartDate = update.StartDate
	}
	if update.EndDate != nil {
		bundle.EndDate = update.EndDate
	}
	if update.ClearMaxPurchases {
		bundle.MaxPurchases = nil
	} else if update.MaxPurchases != nil {
		bundle.MaxPurchases = update.MaxPurchases
	}

	if err := s.store.Bundles().Save(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// AddCourse appends a course to the bundle and reprices it.
func (s *BundleService) AddCourse(bundleID, courseID uint) (*models.Bundle, error) {
	bundle, err := s.store.Bundles().GetByID(bundleID)
	if err != nil {
		return nil, err
	}
	for _, bc := range bundle.Courses {
		if bc.CourseID == courseID {
			return nil, apperrors.Conflict("course is already part of the bundle")
		}
	}
	course, err := s.store.Courses().GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CoursePublished {
		return nil, apperrors.PolicyViolation("only published courses can be bundled")
	}

	if err := s.store.Bundles().AddCourse(&models.BundleCourse{
		BundleID: bundleID,
		CourseID: courseID,
		Position: len(bundle.Courses),
	}); err != nil {
		return nil, err
	}

	bundle.OriginalPrice = round2(bundle.OriginalPrice + EffectivePrice(*course))
	bundle.BundlePrice = round2(bundle.OriginalPrice * (1 - bundle.DiscountPercent/100))
	if err := s.store.Bundles().Save(bundle); err != nil {
		return nil, err
	}
	return s.store.Bundles().GetByID(bundleID)
}

// RemoveCourse drops a course from the bundle and reprices it.
func (s *BundleService) RemoveCourse(bundleID, courseID uint) (*models.Bundle, error) {
	bundle, err := s.store.Bundles().GetByID(bundleID)
	if err != nil {
		return nil, err
	}

	var removed *models.BundleCourse
	for i := range bundle.Courses {
		if bundle.Courses[i].CourseID == courseID {
			removed = &bundle.Courses[i]
			break
		}
	}
	if removed == nil {
		return nil, apperrors.NotFound("course is not part of the bundle")
	}

	if err := s.store.Bundles().RemoveCourse(bundleID, courseID); err != nil {
		return nil, err
	}

	bundle.OriginalPrice = round2(bundle.OriginalPrice - EffectivePrice(removed.Course))
	if bundle.OriginalPrice < 0 {
		bundle.OriginalPrice = 0
	}
	bundle.BundlePrice = round2(bundle.OriginalPrice * (1 - bundle.DiscountPercent/100))
	if err := s.store.Bundles().Save(bundle); err != nil {
		return nil, err
	}
	return s.store.Bundles().GetByID(bundleID)
}

// IsAvailable reports whether the bundle can be purchased right now:
// active, inside its date window, and under its purchase cap.
func (s *BundleService) IsAvailable(bundle *models.Bundle, now time.Time) bool {
	if !bundle.IsActive {
		return false
	}
	if bundle.StartDate != nil && now.Before(*bundle.StartDate) {
		return false
	}
	if bundle.EndDate != nil && now.After(*bundle.EndDate) {
		return false
	}
	if bundle.MaxPurchases != nil && bundle.PurchaseCount >= *bundle.MaxPurchases {
		return false
	}
	return true
}

// PurchaseBundle creates a pending order for the bundle and hands payment
// to the provider. The order carries one item per bundled course, priced
// by pro-rating the bundle price across effective course prices, so
// instructor earnings split fairly at settlement. Enrollment, earnings
// and the purchase log are only written once payment is confirmed.
func (s *BundleService) PurchaseBundle(userID uint, bundleID uint, email string) (*models.Order, *payment.CheckoutSession, error) {
	bundle, err := s.store.Bundles().GetByID(bundleID)
	if err != nil {
		return nil, nil, err
	}
	if !s.IsAvailable(bundle, time.Now()) {
		return nil, nil, apperrors.PolicyViolation("bundle is not available for purchase")
	}
	if len(bundle.Courses) == 0 {
		return nil, nil, apperrors.PolicyViolation("bundle has no courses")
	}

	ownedAll := true
	for _, bc := range bundle.Courses {
		if bc.Course.Status != models.CoursePublished {
			return nil, nil, apperrors.PolicyViolation(fmt.Sprintf("course %q is not published", bc.Course.Title))
		}
		enrolled, err := s.store.Enrollments().Exists(userID, bc.CourseID)
		if err != nil {
			return nil, nil, err
		}
		if !enrolled {
			ownedAll = false
		}
	}
	if ownedAll {
		return nil, nil, apperrors.Conflict("already enrolled in every course of this bundle")
	}

	order := &models.Order{
		UserID:      userID,
		OrderNumber: GenerateOrderNumber(),
		Status:      models.OrderPending,
		Subtotal:    bundle.OriginalPrice,
		Discount:    round2(bundle.OriginalPrice - bundle.BundlePrice),
		Total:       bundle.BundlePrice,
		BundleID:    &bundle.ID,
	}
	order.Items = s.prorateItems(bundle)

	if err := s.store.Orders().Create(order); err != nil {
		return nil, nil, err
	}

	if order.Total <= 0 {
		if err := s.checkout.OnPaymentConfirmed(order.ID, ""); err != nil {
			return nil, nil, err
		}
		settled, err := s.store.Orders().GetByID(order.ID)
		return settled, nil, err
	}

	session, err := s.payments.CreateCheckoutSession(payment.CheckoutParams{
		AmountMinor:   payment.MinorUnits(order.Total),
		Currency:      s.currency,
		Description:   "Bundle " + bundle.Title,
		CustomerEmail: email,
		LineItems: []payment.LineItem{{
			Name:        bundle.Title,
			AmountMinor: payment.MinorUnits(order.Total),
			Quantity:    1,
		}},
		Metadata: map[string]string{
			"order_id":    fmt.Sprintf("%d", order.ID),
			"bundle_slug": bundle.Slug,
		},
	})
	if err != nil {
		return order, nil, apperrors.ExternalProvider("payment provider rejected checkout session", err)
	}

	order.ProviderSessionID = session.ID
	if err := s.store.Orders().Save(order); err != nil {
		return nil, nil, err
	}
	return order, session, nil
}

// prorateItems splits the bundle price across courses in proportion to
// their effective prices. The last item absorbs rounding drift so the
// item prices sum exactly to the bundle price.
func (s *BundleService) prorateItems(bundle *models.Bundle) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(bundle.Courses))
	var allocated float64
	for i, bc := range bundle.Courses {
		var price float64
		if i == len(bundle.Courses)-1 {
			// Earlier rounding can overshoot the bundle price; never
			// charge a negative remainder.
			price = round2(bundle.BundlePrice - allocated)
			if price < 0 {
				price = 0
			}
		} else if bundle.OriginalPrice > 0 {
			price = round2(EffectivePrice(bc.Course) / bundle.OriginalPrice * bundle.BundlePrice)
		}
		allocated = round2(allocated + price)
		items = append(items, models.OrderItem{
			CourseID:        bc.CourseID,
			InstructorID:    bc.Course.InstructorID,
			Price:           price,
			InstructorShare: s.earnings.InstructorShare(price),
		})
	}
	return items
}

func (s *BundleService) loadBundleCourses(courseIDs []uint) ([]models.Course, error) {
	if len(courseIDs) == 0 {
		return nil, apperrors.Validation("bundle requires at least one course")
	}
	courses, err := s.store.Courses().ListByIDs(courseIDs)
	if err != nil {
		return nil, err
	}
	if len(courses) != len(courseIDs) {
		return nil, apperrors.Validation("bundle references an unknown course")
	}
	for _, course := range courses {
		if course.Status != models.CoursePublished {
			return nil, apperrors.PolicyViolation(fmt.Sprintf("course %q is not published", course.Title))
		}
	}
	return courses, nil
}
