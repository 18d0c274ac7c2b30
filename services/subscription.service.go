package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"edumart/apperrors"
	"edumart/models"
	"edumart/notify"
	"edumart/payment"
	"edumart/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubscriptionService owns the subscription state machine and its
// reconciliation with provider webhook events.
type SubscriptionService struct {
	store  repository.Store
	mailer Mailer
}

func NewSubscriptionService(store repository.Store, mailer Mailer) *SubscriptionService {
	return &SubscriptionService{store: store, mailer: mailer}
}

// PlanUpdate carries partial plan changes; nil fields are left untouched.
// Price changes never retroactively affect existing subscriptions.
type PlanUpdate struct {
	Name            *string
	MonthlyPrice    *float64
	YearlyPrice     *float64
	Features        []string
	MaxCourses      *int
	ClearMaxCourses bool
	IsActive        *bool
}

func (s *SubscriptionService) ListPlans(includeInactive bool) ([]models.SubscriptionPlan, error) {
	return s.store.Plans().List(!includeInactive)
}

func (s *SubscriptionService) CreatePlan(name, slug string, monthlyPrice, yearlyPrice float64, features []string, maxCourses *int) (*models.SubscriptionPlan, error) {
	if monthlyPrice < 0 || yearlyPrice < 0 {
		return nil, apperrors.Validation("plan prices cannot be negative")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if existing, err := s.store.Plans().GetBySlug(slug); err == nil && existing != nil {
		return nil, apperrors.Conflict("a plan with this slug already exists")
	} else if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	featureJSON, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	plan := &models.SubscriptionPlan{
		Name:         name,
		Slug:         slug,
		MonthlyPrice: monthlyPrice,
		YearlyPrice:  yearlyPrice,
		Features:     datatypes.JSON(featureJSON),
		MaxCourses:   maxCourses,
		IsActive:     true,
	}
	if err := s.store.Plans().Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *SubscriptionService) UpdatePlan(id uint, update PlanUpdate) (*models.SubscriptionPlan, error) {
	plan, err := s.store.Plans().GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		plan.Name = *update.Name
	}
	if update.MonthlyPrice != nil {
		if *update.MonthlyPrice < 0 {
			return nil, apperrors.Validation("plan prices cannot be negative")
		}
		plan.MonthlyPrice = *update.MonthlyPrice
	}
	if update.YearlyPrice != nil {
		if *update.YearlyPrice < 0 {
			return nil, apperrors.Validation("plan prices cannot be negative")
		}
		plan.YearlyPrice = *update.YearlyPrice
	}
	if update.Features != nil {
		featureJSON, err := json.Marshal(update.Features)
		if err != nil {
			return nil, err
		}
		plan.Features = datatypes.JSON(featureJSON)
	}
	if update.ClearMaxCourses {
		plan.MaxCourses = nil
	} else if update.MaxCourses != nil {
		plan.MaxCourses = update.MaxCourses
	}
	if update.IsActive != nil {
		plan.IsActive = *update.IsActive
	}

	if err := s.store.Plans().Save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetForUser returns the user's live (non-terminal) subscription.
func (s *SubscriptionService) GetForUser(userID uint) (*models.Subscription, error) {
	sub, err := s.store.Subscriptions().GetLiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NotFound("no active subscription")
	}
	return sub, nil
}

// Subscribe starts a subscription on the given plan. Payment collection is
// delegated to the external checkout flow; the subscription starts active
// and webhook events keep it in sync afterwards.
func (s *SubscriptionService) Subscribe(userID uint, planSlug, interval string) (*models.Subscription, error) {
	if interval != models.IntervalMonthly && interval != models.IntervalYearly {
		return nil, apperrors.Validation("interval must be MONTHLY or YEARLY")
	}

	existing, err := s.store.Subscriptions().GetLiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("user already has an active subscription")
	}

	plan, err := s.store.Plans().GetBySlug(planSlug)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperrors.PolicyViolation("plan is not available")
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionActive,
		Interval:           interval,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   nextPeriodEnd(now, interval),
	}
	if err := s.store.Subscriptions().Create(sub); err != nil {
		// The partial unique index catches a concurrent subscribe that the
		// application-level check missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("user already has an active subscription")
		}
		return nil, err
	}
	sub.Plan = *plan
	log.Printf("[SUBSCRIPTION] User %d subscribed to %s (%s)", userID, plan.Slug, interval)
	return sub, nil
}

// Cancel schedules the subscription to end at the period boundary. Status
// stays active/trialing until the reaper (or a provider event) flips it.
func (s *SubscriptionService) Cancel(userID uint) (*models.Subscription, error) {
	sub, err := s.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.SubscriptionActive && sub.Status != models.SubscriptionTrialing {
		return nil, apperrors.PolicyViolation("subscription cannot be canceled in its current state")
	}
	if sub.CancelAtPeriodEnd {
		return sub, nil
	}

	now := time.Now()
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &now
	if err := s.store.Subscriptions().Save(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Resume undoes a pending cancellation before the period ends.
func (s *SubscriptionService) Resume(userID uint) (*models.Subscription, error) {
	sub, err := s.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	if !sub.CancelAtPeriodEnd {
		return nil, apperrors.PolicyViolation("subscription is not scheduled for cancellation")
	}

	sub.CancelAtPeriodEnd = false
	sub.CanceledAt = nil
	if err := s.store.Subscriptions().Save(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ChangePlan swaps the plan immediately. No proration; the new plan's
// price applies from the next billing period.
func (s *SubscriptionService) ChangePlan(userID uint, newPlanSlug string) (*models.Subscription, error) {
	sub, err := s.GetForUser(userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.store.Plans().GetBySlug(newPlanSlug)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, apperrors.PolicyViolation("plan is not available")
	}
	if plan.ID == sub.PlanID {
		return sub, nil
	}

	sub.PlanID = plan.ID
	sub.Plan = *plan
	if err := s.store.Subscriptions().Save(sub); err != nil {
		return nil, err
	}
	log.Printf("[SUBSCRIPTION] User %d changed plan to %s", userID, plan.Slug)
	return sub, nil
}

// HandleWebhookEvent reconciles provider subscription events. The event
// ledger (unique provider event id) makes replays no-ops; the ledger row
// and the state change commit in one transaction, so a failed handler
// leaves the event unrecorded and safely retryable. Unknown event types
// are recorded and ignored.
func (s *SubscriptionService) HandleWebhookEvent(event *payment.WebhookEvent) error {
	return s.store.Atomic(func(tx repository.Store) error {
		created, err := tx.WebhookEvents().Record(&models.WebhookEvent{
			ProviderEventID: event.ID,
			EventType:       event.Type,
			Payload:         datatypes.JSON(event.Raw),
			ProcessedAt:     time.Now(),
		})
		if err != nil {
			return err
		}
		if !created {
			log.Printf("[WEBHOOK] Replay of event %s (%s) ignored", event.ID, event.Type)
			return nil
		}

		switch event.Type {
		case payment.EventSubscriptionUpdated:
			return s.applySubscriptionUpdate(tx, event)
		case payment.EventSubscriptionDeleted:
			return s.applyStatus(tx, event, models.SubscriptionExpired)
		case payment.EventPaymentFailed:
			return s.applyStatus(tx, event, models.SubscriptionPastDue)
		case payment.EventPaymentSucceeded:
			return s.applyPaymentSucceeded(tx, event)
		default:
			return nil
		}
	})
}

func (s *SubscriptionService) findForEvent(tx repository.Store, event *payment.WebhookEvent) (*models.Subscription, error) {
	if event.ObjectID != "" {
		sub, err := tx.Subscriptions().GetByProviderID(event.ObjectID)
		if err != nil || sub != nil {
			return sub, err
		}
	}
	if raw, ok := event.Metadata["user_id"]; ok {
		if id, err := json.Number(raw).Int64(); err == nil {
			return tx.Subscriptions().GetLiveByUser(uint(id))
		}
	}
	return nil, nil
}

func (s *SubscriptionService) applySubscriptionUpdate(tx repository.Store, event *payment.WebhookEvent) error {
	sub, err := s.findForEvent(tx, event)
	if err != nil {
		return err
	}
	if sub == nil {
		log.Printf("[WEBHOOK] No subscription matches event %s (object %s)", event.ID, event.ObjectID)
		return nil
	}

	switch event.Status {
	case models.SubscriptionTrialing, models.SubscriptionActive,
		models.SubscriptionPastDue, models.SubscriptionCanceled, models.SubscriptionExpired:
		sub.Status = event.Status
	case "":
		// Status-less update: sync period fields only.
	default:
		log.Printf("[WEBHOOK] Event %s carries unknown subscription status %q", event.ID, event.Status)
	}

	if !event.PeriodStartTime().IsZero() {
		sub.CurrentPeriodStart = event.PeriodStartTime()
	}
	if !event.PeriodEndTime().IsZero() {
		sub.CurrentPeriodEnd = event.PeriodEndTime()
		sub.ReminderSent = false
	}
	sub.CancelAtPeriodEnd = event.CancelAtPeriodEnd
	if event.ObjectID != "" {
		sub.ProviderSubID = event.ObjectID
	}
	return tx.Subscriptions().Save(sub)
}

func (s *SubscriptionService) applyStatus(tx repository.Store, event *payment.WebhookEvent, status string) error {
	sub, err := s.findForEvent(tx, event)
	if err != nil {
		return err
	}
	if sub == nil {
		log.Printf("[WEBHOOK] No subscription matches event %s (object %s)", event.ID, event.ObjectID)
		return nil
	}
	if sub.IsTerminal() {
		return nil
	}
	sub.Status = status
	return tx.Subscriptions().Save(sub)
}

// applyPaymentSucceeded extends the current period by one billing interval
// and recovers a past_due subscription to active.
func (s *SubscriptionService) applyPaymentSucceeded(tx repository.Store, event *payment.WebhookEvent) error {
	sub, err := s.findForEvent(tx, event)
	if err != nil {
		return err
	}
	if sub == nil {
		log.Printf("[WEBHOOK] No subscription matches event %s (object %s)", event.ID, event.ObjectID)
		return nil
	}
	if sub.IsTerminal() {
		return nil
	}

	sub.CurrentPeriodStart = sub.CurrentPeriodEnd
	sub.CurrentPeriodEnd = nextPeriodEnd(sub.CurrentPeriodEnd, sub.Interval)
	sub.ReminderSent = false
	if sub.Status == models.SubscriptionPastDue {
		sub.Status = models.SubscriptionActive
	}
	return tx.Subscriptions().Save(sub)
}

// pastDueGrace is how long a past_due subscription may linger beyond its
// period end before the reaper expires it.
const pastDueGrace = 7 * 24 * time.Hour

// ReapExpired applies the period-boundary transitions the provider does
// not push: scheduled cancellations take effect, and stale past_due
// subscriptions expire. Run by the billing scheduler.
func (s *SubscriptionService) ReapExpired(now time.Time) (int, error) {
	subs, err := s.store.Subscriptions().ListPeriodEnded(now)
	if err != nil {
		return 0, err
	}

	reaped := 0
	for i := range subs {
		sub := &subs[i]
		switch {
		case sub.CancelAtPeriodEnd:
			sub.Status = models.SubscriptionCanceled
			if sub.CanceledAt == nil {
				sub.CanceledAt = &now
			}
		case sub.Status == models.SubscriptionPastDue && now.Sub(sub.CurrentPeriodEnd) > pastDueGrace:
			sub.Status = models.SubscriptionExpired
		default:
			continue
		}
		if err := s.store.Subscriptions().Save(sub); err != nil {
			return reaped, err
		}
		reaped++
	}
	if reaped > 0 {
		log.Printf("[SUBSCRIPTION] Reaped %d subscriptions past their period end", reaped)
	}
	return reaped, nil
}

// SendRenewalReminders mails users whose subscription renews within the
// next two days. Run by the billing scheduler.
func (s *SubscriptionService) SendRenewalReminders(now time.Time) (int, error) {
	subs, err := s.store.Subscriptions().ListExpiringBetween(now, now.AddDate(0, 0, 2))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		if sub.CancelAtPeriodEnd {
			continue
		}
		user, err := s.store.Users().GetByID(sub.UserID)
		if err != nil {
			log.Printf("[SUBSCRIPTION] Could not load user %d for renewal reminder: %v", sub.UserID, err)
			continue
		}
		if s.mailer != nil {
			s.mailer.Enqueue(notify.RenewalReminder(user.Email, user.Name, sub.Plan.Name, sub.CurrentPeriodEnd))
		}
		sub.ReminderSent = true
		if err := s.store.Subscriptions().Save(sub); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// nextPeriodEnd computes the period boundary one billing interval after from.
func nextPeriodEnd(from time.Time, interval string) time.Time {
	if interval == models.IntervalYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
