package services

import (
	"fmt"
	"log"

	"edumart/apperrors"
	"edumart/models"
	"edumart/notify"
	"edumart/payment"
	"edumart/repository"
)

// CheckoutService converts carts into orders, hands payment collection to
// the external provider, and settles orders when payment is confirmed.
type CheckoutService struct {
	store    repository.Store
	payments payment.Client
	earnings *EarningsService
	mailer   Mailer
	currency string
}

func NewCheckoutService(store repository.Store, payments payment.Client, earnings *EarningsService, mailer Mailer, currency string) *CheckoutService {
	return &CheckoutService{
		store:    store,
		payments: payments,
		earnings: earnings,
		mailer:   mailer,
		currency: currency,
	}
}

// Checkout validates the user's cart and creates a pending order plus a
// provider checkout session. A single unpurchasable or already-owned item
// rejects the whole checkout so nothing is silently dropped. Zero-total
// orders skip the provider and settle immediately.
func (s *CheckoutService) Checkout(userID uint, email string) (*models.Order, *payment.CheckoutSession, error) {
	cart, err := s.store.Carts().GetByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, nil, apperrors.Validation("cart is empty")
	}

	courseIDs := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		courseIDs = append(courseIDs, item.CourseID)
	}
	courses, err := s.store.Courses().ListByIDs(courseIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(courses) != len(courseIDs) {
		return nil, nil, apperrors.PolicyViolation("cart contains a course that is no longer available")
	}

	order := &models.Order{
		UserID:      userID,
		OrderNumber: GenerateOrderNumber(),
		Status:      models.OrderPending,
	}
	lineItems := make([]payment.LineItem, 0, len(courses))
	for _, course := range courses {
		if course.Status != models.CoursePublished {
			return nil, nil, apperrors.PolicyViolation(fmt.Sprintf("course %q is not published", course.Title))
		}
		enrolled, err := s.store.Enrollments().Exists(userID, course.ID)
		if err != nil {
			return nil, nil, err
		}
		if enrolled {
			return nil, nil, apperrors.Conflict(fmt.Sprintf("already enrolled in %q", course.Title))
		}

		price := EffectivePrice(course)
		order.Subtotal += price
		order.Items = append(order.Items, models.OrderItem{
			CourseID:        course.ID,
			InstructorID:    course.InstructorID,
			Price:           price,
			InstructorShare: s.earnings.InstructorShare(price),
		})
		lineItems = append(lineItems, payment.LineItem{
			Name:        course.Title,
			AmountMinor: payment.MinorUnits(price),
			Quantity:    1,
		})
	}
	order.Subtotal = round2(order.Subtotal)
	order.Total = round2(order.Subtotal - order.Discount)

	if err := s.store.Orders().Create(order); err != nil {
		return nil, nil, err
	}

	// Free orders settle without payment collection.
	if order.Total <= 0 {
		if err := s.OnPaymentConfirmed(order.ID, ""); err != nil {
			return nil, nil, err
		}
		settled, err := s.store.Orders().GetByID(order.ID)
		return settled, nil, err
	}

	session, err := s.payments.CreateCheckoutSession(payment.CheckoutParams{
		AmountMinor:   payment.MinorUnits(order.Total),
		Currency:      s.currency,
		Description:   "Order " + order.OrderNumber,
		CustomerEmail: email,
		LineItems:     lineItems,
		Metadata: map[string]string{
			"order_id":     fmt.Sprintf("%d", order.ID),
			"order_number": order.OrderNumber,
		},
	})
	if err != nil {
		// The order stays pending so checkout can be retried or the order
		// reconciled later; the failure must reach the caller.
		return order, nil, apperrors.ExternalProvider("payment provider rejected checkout session", err)
	}

	order.ProviderSessionID = session.ID
	if err := s.store.Orders().Save(order); err != nil {
		return nil, nil, err
	}
	return order, session, nil
}

// OnPaymentConfirmed settles an order: flips it to completed, creates one
// enrollment per item, credits instructor earnings, and records a bundle
// purchase when the order bought a bundle. Idempotent: the status-guarded
// transition makes a duplicate webhook delivery a no-op, and the earnings
// existence check plus enrollment upsert guard partial replays.
func (s *CheckoutService) OnPaymentConfirmed(orderID uint, paymentRef string) error {
	var settled *models.Order
	err := s.store.Atomic(func(tx repository.Store) error {
		transitioned, err := tx.Orders().TransitionStatus(orderID,
			[]string{models.OrderPending, models.OrderFailed}, models.OrderCompleted)
		if err != nil {
			return err
		}
		if !transitioned {
			// Already settled (or refunded); nothing more to apply.
			return nil
		}

		order, err := tx.Orders().GetByID(orderID)
		if err != nil {
			return err
		}
		if paymentRef != "" {
			order.ProviderPaymentID = paymentRef
			if err := tx.Orders().Save(order); err != nil {
				return err
			}
		}

		for _, item := range order.Items {
			if err := tx.Enrollments().CreateIfNotExists(order.UserID, item.CourseID); err != nil {
				return err
			}
		}

		if err := s.earnings.CreateEarningsForOrder(tx, order); err != nil {
			return err
		}

		if order.BundleID != nil {
			if err := s.recordBundlePurchase(tx, order); err != nil {
				return err
			}
		}

		if err := s.clearPurchasedFromCart(tx, order); err != nil {
			return err
		}

		settled = order
		return nil
	})
	if err != nil {
		return err
	}
	if settled == nil {
		return nil
	}

	log.Printf("[CHECKOUT] Order %s settled for user %d (total %.2f)", settled.OrderNumber, settled.UserID, settled.Total)
	s.sendConfirmation(settled)
	return nil
}

// OnPaymentFailed marks a pending order failed. A later successful payment
// attempt can still settle it.
func (s *CheckoutService) OnPaymentFailed(orderID uint) error {
	transitioned, err := s.store.Orders().TransitionStatus(orderID,
		[]string{models.OrderPending}, models.OrderFailed)
	if err != nil {
		return err
	}
	if transitioned {
		log.Printf("[CHECKOUT] Order %d marked failed after payment failure", orderID)
	}
	return nil
}

func (s *CheckoutService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.Unauthorized("order belongs to another user")
	}
	return order, nil
}

func (s *CheckoutService) ListOrders(userID uint, page, limit int) ([]models.Order, int64, error) {
	return s.store.Orders().ListByUser(userID, page, limit)
}

func (s *CheckoutService) recordBundlePurchase(tx repository.Store, order *models.Order) error {
	exists, err := tx.Bundles().PurchaseExistsForOrder(order.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	bumped, err := tx.Bundles().IncrementPurchaseCount(*order.BundleID)
	if err != nil {
		return err
	}
	if !bumped {
		// The cap filled between order creation and settlement. The buyer
		// has paid, so honor the purchase and record the overshoot.
		log.Printf("[CHECKOUT] Bundle %d purchase cap reached before order %d settled", *order.BundleID, order.ID)
	}

	return tx.Bundles().CreatePurchase(&models.BundlePurchase{
		BundleID:  *order.BundleID,
		UserID:    order.UserID,
		OrderID:   order.ID,
		PricePaid: order.Total,
	})
}

func (s *CheckoutService) clearPurchasedFromCart(tx repository.Store, order *models.Order) error {
	cart, err := tx.Carts().GetByUser(order.UserID)
	if err != nil || cart == nil {
		return err
	}
	for _, item := range order.Items {
		if err := tx.Carts().RemoveItem(cart.ID, item.CourseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *CheckoutService) sendConfirmation(order *models.Order) {
	if s.mailer == nil {
		return
	}
	user, err := s.store.Users().GetByID(order.UserID)
	if err != nil {
		log.Printf("[CHECKOUT] Could not load user %d for confirmation email: %v", order.UserID, err)
		return
	}
	s.mailer.Enqueue(notify.OrderConfirmation(user.Email, user.Name, order.OrderNumber, order.Total))
}
