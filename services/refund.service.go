package services

import (
	"fmt"
	"log"
	"time"

	"edumart/apperrors"
	"edumart/models"
	"edumart/notify"
	"edumart/payment"
	"edumart/repository"
)

// RefundPolicy is the platform refund policy, loaded from config.
type RefundPolicy struct {
	MaxDaysAfterPurchase int
	AutoApproveUnder     float64
	RequiresApproval     bool
}

var refundReasons = map[string]bool{
	models.RefundReasonNotAsDescribed: true,
	models.RefundReasonQualityIssue:   true,
	models.RefundReasonAccidental:     true,
	models.RefundReasonOther:          true,
}

// RefundService runs the refund pipeline: request, policy checks,
// approval (manual or automatic), provider refund, and the reversal of
// the order's side effects.
type RefundService struct {
	store    repository.Store
	payments payment.Client
	earnings *EarningsService
	mailer   Mailer
	policy   RefundPolicy
}

func NewRefundService(store repository.Store, payments payment.Client, earnings *EarningsService, mailer Mailer, policy RefundPolicy) *RefundService {
	return &RefundService{
		store:    store,
		payments: payments,
		earnings: earnings,
		mailer:   mailer,
		policy:   policy,
	}
}

// RequestRefund files a refund request for a completed order. Small
// amounts are approved immediately when the policy allows it; if the
// automatic approval fails (provider outage), the request stays pending
// for an admin to retry.
func (s *RefundService) RequestRefund(userID, orderID uint, reason, description string) (*models.Refund, error) {
	if !refundReasons[reason] {
		return nil, apperrors.Validation("invalid refund reason")
	}

	order, err := s.store.Orders().GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.Unauthorized("order belongs to another user")
	}
	if order.Status == models.OrderRefunded {
		return nil, apperrors.PolicyViolation("order has already been refunded")
	}
	if order.Status != models.OrderCompleted {
		return nil, apperrors.PolicyViolation("only completed orders can be refunded")
	}

	existing, err := s.store.Refunds().GetByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("a refund request already exists for this order")
	}

	window := time.Duration(s.policy.MaxDaysAfterPurchase) * 24 * time.Hour
	if time.Since(order.CreatedAt) > window {
		return nil, apperrors.PolicyViolation(
			fmt.Sprintf("refund window of %d days has expired", s.policy.MaxDaysAfterPurchase))
	}

	refund := &models.Refund{
		OrderID:     orderID,
		UserID:      userID,
		Amount:      order.Total,
		Reason:      reason,
		Description: description,
		Status:      models.RefundPending,
	}
	if err := s.store.Refunds().Create(refund); err != nil {
		return nil, err
	}
	log.Printf("[REFUND] Refund requested for order %s (%.2f, %s)", order.OrderNumber, refund.Amount, reason)

	if !s.policy.RequiresApproval && refund.Amount <= s.policy.AutoApproveUnder {
		if err := s.approve(refund, order, nil, "auto-approved under policy threshold"); err != nil {
			log.Printf("[REFUND] Auto-approval of refund %d failed, left pending: %v", refund.ID, err)
			return refund, nil
		}
	}
	return refund, nil
}

// Approve grants a pending refund: the provider refund is issued, the
// order flips to refunded, and instructor earnings are reversed.
func (s *RefundService) Approve(refundID, adminID uint, notes string) (*models.Refund, error) {
	refund, err := s.store.Refunds().GetByID(refundID)
	if err != nil {
		return nil, err
	}
	if refund.Status != models.RefundPending {
		return nil, apperrors.PolicyViolation("refund is not pending")
	}

	order, err := s.store.Orders().GetByID(refund.OrderID)
	if err != nil {
		return nil, err
	}
	if err := s.approve(refund, order, &adminID, notes); err != nil {
		return nil, err
	}
	return refund, nil
}

// approve issues the provider refund first, then applies the database
// side atomically. A provider failure leaves everything pending; a
// database failure after a successful provider refund is logged for
// reconciliation (the status guard keeps a retry from refunding twice).
func (s *RefundService) approve(refund *models.Refund, order *models.Order, adminID *uint, notes string) error {
	var providerRefundID string
	if order.ProviderPaymentID != "" && refund.Amount > 0 {
		result, err := s.payments.CreateRefund(payment.RefundParams{
			PaymentRef:  order.ProviderPaymentID,
			AmountMinor: payment.MinorUnits(refund.Amount),
			Reason:      refund.Reason,
			Metadata: map[string]string{
				"order_id":  fmt.Sprintf("%d", order.ID),
				"refund_id": fmt.Sprintf("%d", refund.ID),
			},
		})
		if err != nil {
			return apperrors.ExternalProvider("payment provider rejected refund", err)
		}
		providerRefundID = result.ID
	}

	err := s.store.Atomic(func(tx repository.Store) error {
		transitioned, err := tx.Orders().TransitionStatus(order.ID,
			[]string{models.OrderCompleted}, models.OrderRefunded)
		if err != nil {
			return err
		}
		if !transitioned {
			return apperrors.Conflict("order is no longer refundable")
		}

		if err := s.earnings.ReverseEarningsForOrder(tx, order.ID); err != nil {
			return err
		}

		now := time.Now()
		refund.Status = models.RefundApproved
		refund.AdminNotes = notes
		refund.ProcessedBy = adminID
		refund.ProcessedAt = &now
		refund.ProviderRefundID = providerRefundID
		return tx.Refunds().Save(refund)
	})
	if err != nil {
		if providerRefundID != "" {
			log.Printf("[REFUND] Provider refund %s issued but local settlement failed for order %d: %v",
				providerRefundID, order.ID, err)
		}
		return err
	}

	log.Printf("[REFUND] Refund %d approved for order %s (%.2f)", refund.ID, order.OrderNumber, refund.Amount)
	s.notifyDecision(refund, order.OrderNumber, true)
	return nil
}

// Reject declines a pending refund request. The order stays completed.
func (s *RefundService) Reject(refundID, adminID uint, notes string) (*models.Refund, error) {
	refund, err := s.store.Refunds().GetByID(refundID)
	if err != nil {
		return nil, err
	}
	if refund.Status != models.RefundPending {
		return nil, apperrors.PolicyViolation("refund is not pending")
	}

	now := time.Now()
	refund.Status = models.RefundRejected
	refund.AdminNotes = notes
	refund.ProcessedBy = &adminID
	refund.ProcessedAt = &now
	if err := s.store.Refunds().Save(refund); err != nil {
		return nil, err
	}

	s.notifyDecision(refund, refund.Order.OrderNumber, false)
	return refund, nil
}

// MarkProcessed records that the provider confirmed the money moved.
func (s *RefundService) MarkProcessed(refundID uint) (*models.Refund, error) {
	refund, err := s.store.Refunds().GetByID(refundID)
	if err != nil {
		return nil, err
	}
	if refund.Status != models.RefundApproved {
		return nil, apperrors.PolicyViolation("only approved refunds can be marked processed")
	}

	refund.Status = models.RefundProcessed
	if err := s.store.Refunds().Save(refund); err != nil {
		return nil, err
	}
	return refund, nil
}

func (s *RefundService) ListPending(page, limit int) ([]models.Refund, int64, error) {
	return s.store.Refunds().List(models.RefundPending, page, limit)
}

func (s *RefundService) ListByUser(userID uint) ([]models.Refund, error) {
	return s.store.Refunds().ListByUser(userID)
}

func (s *RefundService) notifyDecision(refund *models.Refund, orderNumber string, approved bool) {
	if s.mailer == nil {
		return
	}
	user, err := s.store.Users().GetByID(refund.UserID)
	if err != nil {
		log.Printf("[REFUND] Could not load user %d for refund email: %v", refund.UserID, err)
		return
	}
	s.mailer.Enqueue(notify.RefundDecision(user.Email, user.Name, orderNumber, approved, refund.AdminNotes))
}
