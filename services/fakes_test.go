package services

import (
	"fmt"
	"sort"
	"time"

	"edumart/apperrors"
	"edumart/models"
	"edumart/notify"
	"edumart/payment"
	"edumart/repository"
)

// fakeStore is an in-memory repository.Store. Atomic runs the callback
// directly (no rollback emulation); tests that need rollback semantics
// assert on the guards instead.
type fakeStore struct {
	seq             uint
	users           map[uint]*models.User
	courses         map[uint]*models.Course
	enrollments     map[[2]uint]bool
	carts           map[uint]*models.Cart
	orders          map[uint]*models.Order
	plans           map[uint]*models.SubscriptionPlan
	subs            map[uint]*models.Subscription
	refunds         map[uint]*models.Refund
	earnings        map[uint]*models.InstructorEarning
	payouts         map[uint]*models.Payout
	bundles         map[uint]*models.Bundle
	bundlePurchases []*models.BundlePurchase
	webhookEvents   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uint]*models.User),
		courses:       make(map[uint]*models.Course),
		enrollments:   make(map[[2]uint]bool),
		carts:         make(map[uint]*models.Cart),
		orders:        make(map[uint]*models.Order),
		plans:         make(map[uint]*models.SubscriptionPlan),
		subs:          make(map[uint]*models.Subscription),
		refunds:       make(map[uint]*models.Refund),
		earnings:      make(map[uint]*models.InstructorEarning),
		payouts:       make(map[uint]*models.Payout),
		bundles:       make(map[uint]*models.Bundle),
		webhookEvents: make(map[string]bool),
	}
}

func (s *fakeStore) id() uint {
	s.seq++
	return s.seq
}

func (s *fakeStore) Atomic(fn func(repository.Store) error) error { return fn(s) }

func (s *fakeStore) Users() repository.UserRepo                 { return fakeUserRepo{s} }
func (s *fakeStore) Courses() repository.CourseRepo             { return fakeCourseRepo{s} }
func (s *fakeStore) Enrollments() repository.EnrollmentRepo     { return fakeEnrollmentRepo{s} }
func (s *fakeStore) Carts() repository.CartRepo                 { return fakeCartRepo{s} }
func (s *fakeStore) Orders() repository.OrderRepo               { return fakeOrderRepo{s} }
func (s *fakeStore) Plans() repository.PlanRepo                 { return fakePlanRepo{s} }
func (s *fakeStore) Subscriptions() repository.SubscriptionRepo { return fakeSubscriptionRepo{s} }
func (s *fakeStore) Refunds() repository.RefundRepo             { return fakeRefundRepo{s} }
func (s *fakeStore) Earnings() repository.EarningRepo           { return fakeEarningRepo{s} }
func (s *fakeStore) Payouts() repository.PayoutRepo             { return fakePayoutRepo{s} }
func (s *fakeStore) Bundles() repository.BundleRepo             { return fakeBundleRepo{s} }
func (s *fakeStore) WebhookEvents() repository.WebhookEventRepo { return fakeWebhookEventRepo{s} }

// Seeding helpers.

func (s *fakeStore) addUser(name, email, role string) *models.User {
	user := &models.User{Name: name, Email: email, Role: role}
	user.ID = s.id()
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addCourse(instructorID uint, title string, price, discount float64, status string) *models.Course {
	course := &models.Course{
		Title:         title,
		InstructorID:  instructorID,
		Price:         price,
		DiscountPrice: discount,
		Status:        status,
	}
	course.ID = s.id()
	s.courses[course.ID] = course
	return course
}

func (s *fakeStore) addPlan(name, slug string, monthly, yearly float64, active bool) *models.SubscriptionPlan {
	plan := &models.SubscriptionPlan{
		Name:         name,
		Slug:         slug,
		MonthlyPrice: monthly,
		YearlyPrice:  yearly,
		IsActive:     active,
	}
	plan.ID = s.id()
	s.plans[plan.ID] = plan
	return plan
}

func (s *fakeStore) addCompletedOrder(userID uint, courses []*models.Course) *models.Order {
	order := &models.Order{
		UserID:      userID,
		OrderNumber: GenerateOrderNumber(),
		Status:      models.OrderCompleted,
	}
	order.ID = s.id()
	order.CreatedAt = time.Now()
	for _, course := range courses {
		price := EffectivePrice(*course)
		item := models.OrderItem{
			OrderID:      order.ID,
			CourseID:     course.ID,
			InstructorID: course.InstructorID,
			Price:        price,
		}
		item.ID = s.id()
		order.Subtotal += price
		order.Items = append(order.Items, item)
	}
	order.Total = order.Subtotal
	s.orders[order.ID] = order
	return order
}

// Repos.

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) GetByID(id uint) (*models.User, error) {
	if user, ok := r.s.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.NotFound("user not found")
}

type fakeCourseRepo struct{ s *fakeStore }

func (r fakeCourseRepo) GetByID(id uint) (*models.Course, error) {
	if course, ok := r.s.courses[id]; ok {
		return course, nil
	}
	return nil, apperrors.NotFound("course not found")
}

func (r fakeCourseRepo) ListByIDs(ids []uint) ([]models.Course, error) {
	var courses []models.Course
	for _, id := range ids {
		if course, ok := r.s.courses[id]; ok {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}

type fakeEnrollmentRepo struct{ s *fakeStore }

func (r fakeEnrollmentRepo) Exists(userID, courseID uint) (bool, error) {
	return r.s.enrollments[[2]uint{userID, courseID}], nil
}

func (r fakeEnrollmentRepo) CreateIfNotExists(userID, courseID uint) error {
	r.s.enrollments[[2]uint{userID, courseID}] = true
	return nil
}

func (r fakeEnrollmentRepo) ListByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	for key := range r.s.enrollments {
		if key[0] == userID {
			enrollments = append(enrollments, models.Enrollment{UserID: userID, CourseID: key[1]})
		}
	}
	return enrollments, nil
}

type fakeCartRepo struct{ s *fakeStore }

func (r fakeCartRepo) hydrate(cart *models.Cart) *models.Cart {
	for i := range cart.Items {
		if course, ok := r.s.courses[cart.Items[i].CourseID]; ok {
			cart.Items[i].Course = *course
		}
	}
	return cart
}

func (r fakeCartRepo) GetByID(id uint) (*models.Cart, error) {
	if cart, ok := r.s.carts[id]; ok {
		return r.hydrate(cart), nil
	}
	return nil, apperrors.NotFound("cart not found")
}

func (r fakeCartRepo) GetByUser(userID uint) (*models.Cart, error) {
	for _, cart := range r.s.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			return r.hydrate(cart), nil
		}
	}
	return nil, nil
}

func (r fakeCartRepo) GetBySession(sessionID string) (*models.Cart, error) {
	for _, cart := range r.s.carts {
		if cart.UserID == nil && cart.SessionID == sessionID {
			return r.hydrate(cart), nil
		}
	}
	return nil, nil
}

func (r fakeCartRepo) Create(cart *models.Cart) error {
	cart.ID = r.s.id()
	r.s.carts[cart.ID] = cart
	return nil
}

func (r fakeCartRepo) AddItem(cartID, courseID uint) error {
	cart, ok := r.s.carts[cartID]
	if !ok {
		return apperrors.NotFound("cart not found")
	}
	for _, item := range cart.Items {
		if item.CourseID == courseID {
			return nil
		}
	}
	item := models.CartItem{CartID: cartID, CourseID: courseID}
	item.ID = r.s.id()
	cart.Items = append(cart.Items, item)
	return nil
}

func (r fakeCartRepo) RemoveItem(cartID, courseID uint) error {
	cart, ok := r.s.carts[cartID]
	if !ok {
		return nil
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.CourseID != courseID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return nil
}

func (r fakeCartRepo) ClearItems(cartID uint) error {
	if cart, ok := r.s.carts[cartID]; ok {
		cart.Items = nil
	}
	return nil
}

func (r fakeCartRepo) Delete(cartID uint) error {
	delete(r.s.carts, cartID)
	return nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r fakeOrderRepo) Create(order *models.Order) error {
	order.ID = r.s.id()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = r.s.id()
		order.Items[i].OrderID = order.ID
	}
	r.s.orders[order.ID] = order
	return nil
}

func (r fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	if order, ok := r.s.orders[id]; ok {
		return order, nil
	}
	return nil, apperrors.NotFound("order not found")
}

func (r fakeOrderRepo) ListByUser(userID uint, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	for _, order := range r.s.orders {
		if order.UserID == userID {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, int64(len(orders)), nil
}

func (r fakeOrderRepo) Save(order *models.Order) error {
	r.s.orders[order.ID] = order
	return nil
}

func (r fakeOrderRepo) TransitionStatus(orderID uint, from []string, to string) (bool, error) {
	order, ok := r.s.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if order.Status == status {
			order.Status = to
			return true, nil
		}
	}
	return false, nil
}

type fakePlanRepo struct{ s *fakeStore }

func (r fakePlanRepo) GetByID(id uint) (*models.SubscriptionPlan, error) {
	if plan, ok := r.s.plans[id]; ok {
		return plan, nil
	}
	return nil, apperrors.NotFound("plan not found")
}

func (r fakePlanRepo) GetBySlug(slug string) (*models.SubscriptionPlan, error) {
	for _, plan := range r.s.plans {
		if plan.Slug == slug {
			return plan, nil
		}
	}
	return nil, apperrors.NotFound("plan not found")
}

func (r fakePlanRepo) List(activeOnly bool) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	for _, plan := range r.s.plans {
		if activeOnly && !plan.IsActive {
			continue
		}
		plans = append(plans, *plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].MonthlyPrice < plans[j].MonthlyPrice })
	return plans, nil
}

func (r fakePlanRepo) Create(plan *models.SubscriptionPlan) error {
	plan.ID = r.s.id()
	r.s.plans[plan.ID] = plan
	return nil
}

func (r fakePlanRepo) Save(plan *models.SubscriptionPlan) error {
	r.s.plans[plan.ID] = plan
	return nil
}

var fakeLiveStatuses = map[string]bool{
	models.SubscriptionTrialing: true,
	models.SubscriptionActive:   true,
	models.SubscriptionPastDue:  true,
}

type fakeSubscriptionRepo struct{ s *fakeStore }

func (r fakeSubscriptionRepo) hydrate(sub *models.Subscription) *models.Subscription {
	if plan, ok := r.s.plans[sub.PlanID]; ok {
		sub.Plan = *plan
	}
	return sub
}

func (r fakeSubscriptionRepo) GetByID(id uint) (*models.Subscription, error) {
	if sub, ok := r.s.subs[id]; ok {
		return r.hydrate(sub), nil
	}
	return nil, apperrors.NotFound("subscription not found")
}

func (r fakeSubscriptionRepo) GetLiveByUser(userID uint) (*models.Subscription, error) {
	for _, sub := range r.s.subs {
		if sub.UserID == userID && fakeLiveStatuses[sub.Status] {
			return r.hydrate(sub), nil
		}
	}
	return nil, nil
}

func (r fakeSubscriptionRepo) GetByProviderID(providerSubID string) (*models.Subscription, error) {
	for _, sub := range r.s.subs {
		if sub.ProviderSubID == providerSubID {
			return r.hydrate(sub), nil
		}
	}
	return nil, nil
}

func (r fakeSubscriptionRepo) Create(sub *models.Subscription) error {
	sub.ID = r.s.id()
	r.s.subs[sub.ID] = sub
	return nil
}

func (r fakeSubscriptionRepo) Save(sub *models.Subscription) error {
	r.s.subs[sub.ID] = sub
	return nil
}

func (r fakeSubscriptionRepo) ListPeriodEnded(now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	for _, sub := range r.s.subs {
		if fakeLiveStatuses[sub.Status] && !sub.CurrentPeriodEnd.After(now) {
			subs = append(subs, *r.hydrate(sub))
		}
	}
	return subs, nil
}

func (r fakeSubscriptionRepo) ListExpiringBetween(from, to time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	for _, sub := range r.s.subs {
		if !fakeLiveStatuses[sub.Status] || sub.ReminderSent {
			continue
		}
		if sub.CurrentPeriodEnd.Before(from) || sub.CurrentPeriodEnd.After(to) {
			continue
		}
		subs = append(subs, *r.hydrate(sub))
	}
	return subs, nil
}

type fakeRefundRepo struct{ s *fakeStore }

func (r fakeRefundRepo) hydrate(refund *models.Refund) *models.Refund {
	if order, ok := r.s.orders[refund.OrderID]; ok {
		refund.Order = *order
	}
	return refund
}

func (r fakeRefundRepo) GetByID(id uint) (*models.Refund, error) {
	if refund, ok := r.s.refunds[id]; ok {
		return r.hydrate(refund), nil
	}
	return nil, apperrors.NotFound("refund not found")
}

func (r fakeRefundRepo) GetByOrderID(orderID uint) (*models.Refund, error) {
	for _, refund := range r.s.refunds {
		if refund.OrderID == orderID {
			return r.hydrate(refund), nil
		}
	}
	return nil, nil
}

func (r fakeRefundRepo) Create(refund *models.Refund) error {
	refund.ID = r.s.id()
	refund.CreatedAt = time.Now()
	r.s.refunds[refund.ID] = refund
	return nil
}

func (r fakeRefundRepo) Save(refund *models.Refund) error {
	r.s.refunds[refund.ID] = refund
	return nil
}

func (r fakeRefundRepo) List(status string, page, limit int) ([]models.Refund, int64, error) {
	var refunds []models.Refund
	for _, refund := range r.s.refunds {
		if status == "" || refund.Status == status {
			refunds = append(refunds, *r.hydrate(refund))
		}
	}
	sort.Slice(refunds, func(i, j int) bool { return refunds[i].ID < refunds[j].ID })
	return refunds, int64(len(refunds)), nil
}

func (r fakeRefundRepo) ListByUser(userID uint) ([]models.Refund, error) {
	var refunds []models.Refund
	for _, refund := range r.s.refunds {
		if refund.UserID == userID {
			refunds = append(refunds, *refund)
		}
	}
	return refunds, nil
}

type fakeEarningRepo struct{ s *fakeStore }

func (r fakeEarningRepo) CreateBatch(earnings []models.InstructorEarning) error {
	for i := range earnings {
		earning := earnings[i]
		earning.ID = r.s.id()
		r.s.earnings[earning.ID] = &earning
	}
	return nil
}

func (r fakeEarningRepo) ExistsForOrder(orderID uint) (bool, error) {
	for _, earning := range r.s.earnings {
		if earning.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeEarningRepo) ListByOrder(orderID uint) ([]models.InstructorEarning, error) {
	var earnings []models.InstructorEarning
	for _, earning := range r.s.earnings {
		if earning.OrderID == orderID {
			earnings = append(earnings, *earning)
		}
	}
	return earnings, nil
}

func (r fakeEarningRepo) ListAvailable(instructorID uint) ([]models.InstructorEarning, error) {
	var earnings []models.InstructorEarning
	for _, earning := range r.s.earnings {
		if earning.InstructorID == instructorID && earning.Status == models.EarningAvailable {
			earnings = append(earnings, *earning)
		}
	}
	sort.Slice(earnings, func(i, j int) bool { return earnings[i].ID < earnings[j].ID })
	return earnings, nil
}

func (r fakeEarningRepo) SumByStatus(instructorID uint, status string) (float64, error) {
	var sum float64
	for _, earning := range r.s.earnings {
		if earning.InstructorID == instructorID && earning.Status == status {
			sum += earning.Amount
		}
	}
	return sum, nil
}

func (r fakeEarningRepo) Save(earning *models.InstructorEarning) error {
	copied := *earning
	r.s.earnings[earning.ID] = &copied
	return nil
}

func (r fakeEarningRepo) MatureBefore(cutoff time.Time) (int64, error) {
	var matured int64
	for _, earning := range r.s.earnings {
		if earning.Status == models.EarningPending && earning.AvailableAt != nil && !earning.AvailableAt.After(cutoff) {
			earning.Status = models.EarningAvailable
			matured++
		}
	}
	return matured, nil
}

type fakePayoutRepo struct{ s *fakeStore }

func (r fakePayoutRepo) GetByID(id uint) (*models.Payout, error) {
	if payout, ok := r.s.payouts[id]; ok {
		return payout, nil
	}
	return nil, apperrors.NotFound("payout not found")
}

func (r fakePayoutRepo) Create(payout *models.Payout) error {
	payout.ID = r.s.id()
	r.s.payouts[payout.ID] = payout
	return nil
}

func (r fakePayoutRepo) Save(payout *models.Payout) error {
	r.s.payouts[payout.ID] = payout
	return nil
}

func (r fakePayoutRepo) ListByInstructor(instructorID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	for _, payout := range r.s.payouts {
		if payout.InstructorID == instructorID {
			payouts = append(payouts, *payout)
		}
	}
	return payouts, nil
}

func (r fakePayoutRepo) SumPendingByInstructor(instructorID uint) (float64, error) {
	var sum float64
	for _, payout := range r.s.payouts {
		if payout.InstructorID == instructorID && payout.Status == models.PayoutPending {
			sum += payout.Amount
		}
	}
	return sum, nil
}

type fakeBundleRepo struct{ s *fakeStore }

func (r fakeBundleRepo) hydrate(bundle *models.Bundle) *models.Bundle {
	for i := range bundle.Courses {
		if course, ok := r.s.courses[bundle.Courses[i].CourseID]; ok {
			bundle.Courses[i].Course = *course
		}
	}
	return bundle
}

func (r fakeBundleRepo) GetByID(id uint) (*models.Bundle, error) {
	if bundle, ok := r.s.bundles[id]; ok {
		return r.hydrate(bundle), nil
	}
	return nil, apperrors.NotFound("bundle not found")
}

func (r fakeBundleRepo) GetBySlug(slug string) (*models.Bundle, error) {
	for _, bundle := range r.s.bundles {
		if bundle.Slug == slug {
			return r.hydrate(bundle), nil
		}
	}
	return nil, apperrors.NotFound("bundle not found")
}

func (r fakeBundleRepo) List(activeOnly bool) ([]models.Bundle, error) {
	var bundles []models.Bundle
	for _, bundle := range r.s.bundles {
		if activeOnly && !bundle.IsActive {
			continue
		}
		bundles = append(bundles, *r.hydrate(bundle))
	}
	return bundles, nil
}

func (r fakeBundleRepo) Create(bundle *models.Bundle) error {
	bundle.ID = r.s.id()
	for i := range bundle.Courses {
		bundle.Courses[i].ID = r.s.id()
		bundle.Courses[i].BundleID = bundle.ID
	}
	r.s.bundles[bundle.ID] = bundle
	return nil
}

func (r fakeBundleRepo) Save(bundle *models.Bundle) error {
	r.s.bundles[bundle.ID] = bundle
	return nil
}

func (r fakeBundleRepo) AddCourse(bc *models.BundleCourse) error {
	bundle, ok := r.s.bundles[bc.BundleID]
	if !ok {
		return apperrors.NotFound("bundle not found")
	}
	bc.ID = r.s.id()
	bundle.Courses = append(bundle.Courses, *bc)
	return nil
}

func (r fakeBundleRepo) RemoveCourse(bundleID, courseID uint) error {
	bundle, ok := r.s.bundles[bundleID]
	if !ok {
		return nil
	}
	kept := make([]models.BundleCourse, 0, len(bundle.Courses))
	for _, bc := range bundle.Courses {
		if bc.CourseID != courseID {
			kept = append(kept, bc)
		}
	}
	bundle.Courses = kept
	return nil
}

func (r fakeBundleRepo) IncrementPurchaseCount(bundleID uint) (bool, error) {
	bundle, ok := r.s.bundles[bundleID]
	if !ok {
		return false, nil
	}
	if bundle.MaxPurchases != nil && bundle.PurchaseCount >= *bundle.MaxPurchases {
		return false, nil
	}
	bundle.PurchaseCount++
	return true, nil
}

func (r fakeBundleRepo) CreatePurchase(purchase *models.BundlePurchase) error {
	purchase.ID = r.s.id()
	r.s.bundlePurchases = append(r.s.bundlePurchases, purchase)
	return nil
}

func (r fakeBundleRepo) PurchaseExistsForOrder(orderID uint) (bool, error) {
	for _, purchase := range r.s.bundlePurchases {
		if purchase.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

type fakeWebhookEventRepo struct{ s *fakeStore }

func (r fakeWebhookEventRepo) Record(event *models.WebhookEvent) (bool, error) {
	if r.s.webhookEvents[event.ProviderEventID] {
		return false, nil
	}
	r.s.webhookEvents[event.ProviderEventID] = true
	return true, nil
}

// fakePayments records provider calls and can be told to fail.
type fakePayments struct {
	sessions    []payment.CheckoutParams
	refundCalls []payment.RefundParams
	failNext    error
}

func (p *fakePayments) CreateCheckoutSession(params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return nil, err
	}
	p.sessions = append(p.sessions, params)
	id := fmt.Sprintf("sess_%d", len(p.sessions))
	return &payment.CheckoutSession{ID: id, URL: "https://pay.example.test/" + id}, nil
}

func (p *fakePayments) CreateRefund(params payment.RefundParams) (*payment.RefundResult, error) {
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return nil, err
	}
	p.refundCalls = append(p.refundCalls, params)
	return &payment.RefundResult{ID: fmt.Sprintf("re_%d", len(p.refundCalls)), Status: "succeeded"}, nil
}

// fakeMailer records enqueued notifications.
type fakeMailer struct {
	sent []notify.Notification
}

func (m *fakeMailer) Enqueue(msg notify.Notification) bool {
	m.sent = append(m.sent, msg)
	return true
}

// testEnv wires the services against the in-memory store with the default
// test policy: 30% platform fee, 50.00 minimum payout, 30 day holds, and
// refunds auto-approved under 50.00 within a 30 day window.
type testEnv struct {
	store    *fakeStore
	payments *fakePayments
	mailer   *fakeMailer

	carts    *CartService
	checkout *CheckoutService
	earnings *EarningsService
	subs     *SubscriptionService
	refunds  *RefundService
	bundles  *BundleService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:    newFakeStore(),
		payments: &fakePayments{},
		mailer:   &fakeMailer{},
	}
	env.carts = NewCartService(env.store)
	env.earnings = NewEarningsService(env.store, env.mailer, 30, 50, 30)
	env.checkout = NewCheckoutService(env.store, env.payments, env.earnings, env.mailer, "USD")
	env.subs = NewSubscriptionService(env.store, env.mailer)
	env.refunds = NewRefundService(env.store, env.payments, env.earnings, env.mailer, RefundPolicy{
		MaxDaysAfterPurchase: 30,
		AutoApproveUnder:     50,
		RequiresApproval:     false,
	})
	env.bundles = NewBundleService(env.store, env.payments, env.earnings, env.checkout, "USD")
	return env
}
