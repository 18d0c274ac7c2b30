package services

import (
	"log"
	"time"

	"edumart/apperrors"
	"edumart/models"
	"edumart/notify"
	"edumart/repository"
)

// InstructorStats is a read-only projection of an instructor's ledger.
type InstructorStats struct {
	Pending      float64 `json:"pending"`
	Available    float64 `json:"available"`
	Paid         float64 `json:"paid"`
	Reversed     float64 `json:"reversed"`
	Lifetime     float64 `json:"lifetime"` // pending + available + paid
	Reserved     float64 `json:"reserved"` // locked by pending payouts
	Withdrawable float64 `json:"withdrawable"`
}

// EarningsService derives instructor earnings from settled order items and
// processes payout requests against the available balance.
type EarningsService struct {
	store      repository.Store
	mailer     Mailer
	feePercent float64
	minPayout  float64
	holdDays   int
}

func NewEarningsService(store repository.Store, mailer Mailer, feePercent, minPayout float64, holdDays int) *EarningsService {
	return &EarningsService{
		store:      store,
		mailer:     mailer,
		feePercent: feePercent,
		minPayout:  minPayout,
		holdDays:   holdDays,
	}
}

// InstructorShare is the item price minus the platform fee.
func (s *EarningsService) InstructorShare(price float64) float64 {
	return round2(price * (1 - s.feePercent/100))
}

// PlatformFee is the platform's cut of an item price.
func (s *EarningsService) PlatformFee(price float64) float64 {
	return round2(price * s.feePercent / 100)
}

// CreateEarningsForOrder creates one pending earning per order item.
// Runs inside the settlement transaction; the order-scoped existence check
// (backed by the unique index on order_item_id) makes it run-once.
func (s *EarningsService) CreateEarningsForOrder(tx repository.Store, order *models.Order) error {
	exists, err := tx.Earnings().ExistsForOrder(order.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	availableAt := time.Now().AddDate(0, 0, s.holdDays)
	earnings := make([]models.InstructorEarning, 0, len(order.Items))
	for _, item := range order.Items {
		earnings = append(earnings, models.InstructorEarning{
			InstructorID: item.InstructorID,
			OrderID:      order.ID,
			OrderItemID:  item.ID,
			Amount:       item.InstructorShare,
			PlatformFee:  s.PlatformFee(item.Price),
			Status:       models.EarningPending,
			AvailableAt:  &availableAt,
		})
	}
	return tx.Earnings().CreateBatch(earnings)
}

// ReverseEarningsForOrder voids a refunded order's earnings. Earnings
// already covered by a payout stay paid; the clawback is a manual
// operations concern, so it is logged loudly instead.
func (s *EarningsService) ReverseEarningsForOrder(tx repository.Store, orderID uint) error {
	earnings, err := tx.Earnings().ListByOrder(orderID)
	if err != nil {
		return err
	}
	for i := range earnings {
		earning := &earnings[i]
		if earning.Status == models.EarningPaid {
			log.Printf("[EARNINGS] Earning %d for refunded order %d was already paid out; manual clawback required",
				earning.ID, orderID)
			continue
		}
		if earning.Status == models.EarningReversed {
			continue
		}
		earning.Status = models.EarningReversed
		if err := tx.Earnings().Save(earning); err != nil {
			return err
		}
	}
	return nil
}

// RequestPayout creates a pending payout against the instructor's
// available balance. Amounts already reserved by other pending payouts
// cannot be requested again.
func (s *EarningsService) RequestPayout(instructorID uint, amount float64) (*models.Payout, error) {
	if amount < s.minPayout {
		return nil, apperrors.PolicyViolation("payout amount is below the minimum")
	}

	available, err := s.store.Earnings().SumByStatus(instructorID, models.EarningAvailable)
	if err != nil {
		return nil, err
	}
	reserved, err := s.store.Payouts().SumPendingByInstructor(instructorID)
	if err != nil {
		return nil, err
	}
	if amount > round2(available-reserved) {
		return nil, apperrors.PolicyViolation("insufficient available earnings")
	}

	payout := &models.Payout{
		InstructorID: instructorID,
		Amount:       amount,
		Reference:    GeneratePayoutReference(),
		Status:       models.PayoutPending,
	}
	if err := s.store.Payouts().Create(payout); err != nil {
		return nil, err
	}
	log.Printf("[EARNINGS] Payout %s requested by instructor %d for %.2f", payout.Reference, instructorID, amount)
	return payout, nil
}

// CompletePayout reconciles an externally confirmed transfer: the payout
// becomes paid and available earnings are consumed oldest-first until the
// payout amount is covered. The crossing earning counts fully toward the
// payout; payout requests are expected to align with whole earnings.
func (s *EarningsService) CompletePayout(payoutID, adminID uint) error {
	var completed *models.Payout
	err := s.store.Atomic(func(tx repository.Store) error {
		payout, err := tx.Payouts().GetByID(payoutID)
		if err != nil {
			return err
		}
		if payout.Status != models.PayoutPending {
			return apperrors.PolicyViolation("payout is not pending")
		}

		available, err := tx.Earnings().ListAvailable(payout.InstructorID)
		if err != nil {
			return err
		}
		var covered float64
		for i := range available {
			if covered >= payout.Amount {
				break
			}
			earning := &available[i]
			earning.Status = models.EarningPaid
			earning.PayoutID = &payout.ID
			if err := tx.Earnings().Save(earning); err != nil {
				return err
			}
			covered = round2(covered + earning.Amount)
		}
		if covered < payout.Amount {
			return apperrors.Conflict("available earnings no longer cover the payout")
		}

		now := time.Now()
		payout.Status = models.PayoutPaid
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		if err := tx.Payouts().Save(payout); err != nil {
			return err
		}
		completed = payout
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyPayout(completed, true, "")
	return nil
}

// FailPayout voids a payout whose external transfer failed; the reserved
// balance is released simply by the payout leaving pending status.
func (s *EarningsService) FailPayout(payoutID, adminID uint, reason string) error {
	var failed *models.Payout
	err := s.store.Atomic(func(tx repository.Store) error {
		payout, err := tx.Payouts().GetByID(payoutID)
		if err != nil {
			return err
		}
		if payout.Status != models.PayoutPending {
			return apperrors.PolicyViolation("payout is not pending")
		}

		now := time.Now()
		payout.Status = models.PayoutFailed
		payout.ProcessedBy = &adminID
		payout.ProcessedAt = &now
		payout.FailureReason = reason
		if err := tx.Payouts().Save(payout); err != nil {
			return err
		}
		failed = payout
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyPayout(failed, false, reason)
	return nil
}

// GetInstructorStats aggregates the instructor's ledger.
func (s *EarningsService) GetInstructorStats(instructorID uint) (*InstructorStats, error) {
	stats := &InstructorStats{}

	var err error
	if stats.Pending, err = s.store.Earnings().SumByStatus(instructorID, models.EarningPending); err != nil {
		return nil, err
	}
	if stats.Available, err = s.store.Earnings().SumByStatus(instructorID, models.EarningAvailable); err != nil {
		return nil, err
	}
	if stats.Paid, err = s.store.Earnings().SumByStatus(instructorID, models.EarningPaid); err != nil {
		return nil, err
	}
	if stats.Reversed, err = s.store.Earnings().SumByStatus(instructorID, models.EarningReversed); err != nil {
		return nil, err
	}
	if stats.Reserved, err = s.store.Payouts().SumPendingByInstructor(instructorID); err != nil {
		return nil, err
	}

	stats.Lifetime = round2(stats.Pending + stats.Available + stats.Paid)
	stats.Withdrawable = round2(stats.Available - stats.Reserved)
	return stats, nil
}

func (s *EarningsService) ListPayouts(instructorID uint) ([]models.Payout, error) {
	return s.store.Payouts().ListByInstructor(instructorID)
}

// MatureEarnings moves pending earnings whose hold period ended to
// available. Run by the billing scheduler.
func (s *EarningsService) MatureEarnings(now time.Time) (int64, error) {
	return s.store.Earnings().MatureBefore(now)
}

func (s *EarningsService) notifyPayout(payout *models.Payout, paid bool, reason string) {
	if s.mailer == nil || payout == nil {
		return
	}
	user, err := s.store.Users().GetByID(payout.InstructorID)
	if err != nil {
		log.Printf("[EARNINGS] Could not load instructor %d for payout email: %v", payout.InstructorID, err)
		return
	}
	s.mailer.Enqueue(notify.PayoutDecision(user.Email, user.Name, payout.Reference, payout.Amount, paid, reason))
}
