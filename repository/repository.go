package repository

import (
	"edumart/models"
	"time"

	"gorm.io/gorm"
)

// Store aggregates the repositories the billing services depend on.
// Atomic runs fn inside one database transaction; every repository obtained
// from the Store passed to fn operates on that transaction.
type Store interface {
	Atomic(fn func(Store) error) error
	Users() UserRepo
	Courses() CourseRepo
	Enrollments() EnrollmentRepo
	Carts() CartRepo
	Orders() OrderRepo
	Plans() PlanRepo
	Subscriptions() SubscriptionRepo
	Refunds() RefundRepo
	Earnings() EarningRepo
	Payouts() PayoutRepo
	Bundles() BundleRepo
	WebhookEvents() WebhookEventRepo
}

type UserRepo interface {
	GetByID(id uint) (*models.User, error)
}

// CourseRepo reads course pricing data. Get* methods return a NotFound
// error for absent rows.
type CourseRepo interface {
	GetByID(id uint) (*models.Course, error)
	ListByIDs(ids []uint) ([]models.Course, error)
}

type EnrollmentRepo interface {
	Exists(userID, courseID uint) (bool, error)
	// CreateIfNotExists is idempotent per (user, course).
	CreateIfNotExists(userID, courseID uint) error
	ListByUser(userID uint) ([]models.Enrollment, error)
}

// CartRepo manages carts. GetByUser/GetBySession return (nil, nil) when no
// cart exists.
type CartRepo interface {
	GetByID(id uint) (*models.Cart, error)
	GetByUser(userID uint) (*models.Cart, error)
	GetBySession(sessionID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	AddItem(cartID, courseID uint) error
	RemoveItem(cartID, courseID uint) error
	ClearItems(cartID uint) error
	Delete(cartID uint) error
}

type OrderRepo interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	ListByUser(userID uint, page, limit int) ([]models.Order, int64, error)
	Save(order *models.Order) error
	// TransitionStatus flips the order status only when the current status
	// is one of from; reports whether a row was updated.
	TransitionStatus(orderID uint, from []string, to string) (bool, error)
}

type PlanRepo interface {
	GetByID(id uint) (*models.SubscriptionPlan, error)
	GetBySlug(slug string) (*models.SubscriptionPlan, error)
	List(activeOnly bool) ([]models.SubscriptionPlan, error)
	Create(plan *models.SubscriptionPlan) error
	Save(plan *models.SubscriptionPlan) error
}

// SubscriptionRepo manages subscription rows. GetLiveByUser and
// GetByProviderID return (nil, nil) when absent.
type SubscriptionRepo interface {
	GetByID(id uint) (*models.Subscription, error)
	GetLiveByUser(userID uint) (*models.Subscription, error)
	GetByProviderID(providerSubID string) (*models.Subscription, error)
	Create(sub *models.Subscription) error
	Save(sub *models.Subscription) error
	ListPeriodEnded(now time.Time) ([]models.Subscription, error)
	ListExpiringBetween(from, to time.Time) ([]models.Subscription, error)
}

// RefundRepo manages refund rows. GetByOrderID returns (nil, nil) when the
// order has no refund yet.
type RefundRepo interface {
	GetByID(id uint) (*models.Refund, error)
	GetByOrderID(orderID uint) (*models.Refund, error)
	Create(refund *models.Refund) error
	Save(refund *models.Refund) error
	List(status string, page, limit int) ([]models.Refund, int64, error)
	ListByUser(userID uint) ([]models.Refund, error)
}

type EarningRepo interface {
	CreateBatch(earnings []models.InstructorEarning) error
	ExistsForOrder(orderID uint) (bool, error)
	ListByOrder(orderID uint) ([]models.InstructorEarning, error)
	// ListAvailable returns available earnings oldest first.
	ListAvailable(instructorID uint) ([]models.InstructorEarning, error)
	SumByStatus(instructorID uint, status string) (float64, error)
	Save(earning *models.InstructorEarning) error
	// MatureBefore moves pending earnings whose hold ended to available.
	MatureBefore(cutoff time.Time) (int64, error)
}

type PayoutRepo interface {
	GetByID(id uint) (*models.Payout, error)
	Create(payout *models.Payout) error
	Save(payout *models.Payout) error
	ListByInstructor(instructorID uint) ([]models.Payout, error)
	SumPendingByInstructor(instructorID uint) (float64, error)
}

type BundleRepo interface {
	GetByID(id uint) (*models.Bundle, error)
	GetBySlug(slug string) (*models.Bundle, error)
	List(activeOnly bool) ([]models.Bundle, error)
	Create(bundle *models.Bundle) error
	Save(bundle *models.Bundle) error
	AddCourse(bc *models.BundleCourse) error
	RemoveCourse(bundleID, courseID uint) error
	// IncrementPurchaseCount bumps the counter unless the purchase cap is
	// already reached; reports whether the bump happened.
	IncrementPurchaseCount(bundleID uint) (bool, error)
	CreatePurchase(purchase *models.BundlePurchase) error
	PurchaseExistsForOrder(orderID uint) (bool, error)
}

type WebhookEventRepo interface {
	// Record inserts the event into the processed ledger. Returns false
	// when the provider event id was already recorded (replay).
	Record(event *models.WebhookEvent) (bool, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Users() UserRepo                 { return &userRepo{db: s.db} }
func (s *gormStore) Courses() CourseRepo             { return &courseRepo{db: s.db} }
func (s *gormStore) Enrollments() EnrollmentRepo     { return &enrollmentRepo{db: s.db} }
func (s *gormStore) Carts() CartRepo                 { return &cartRepo{db: s.db} }
func (s *gormStore) Orders() OrderRepo               { return &orderRepo{db: s.db} }
func (s *gormStore) Plans() PlanRepo                 { return &planRepo{db: s.db} }
func (s *gormStore) Subscriptions() SubscriptionRepo { return &subscriptionRepo{db: s.db} }
func (s *gormStore) Refunds() RefundRepo             { return &refundRepo{db: s.db} }
func (s *gormStore) Earnings() EarningRepo           { return &earningRepo{db: s.db} }
func (s *gormStore) Payouts() PayoutRepo             { return &payoutRepo{db: s.db} }
func (s *gormStore) Bundles() BundleRepo             { return &bundleRepo{db: s.db} }
func (s *gormStore) WebhookEvents() WebhookEventRepo { return &webhookEventRepo{db: s.db} }
