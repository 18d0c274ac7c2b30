package services

import (
	"testing"
	"time"

	"edumart/apperrors"
	"edumart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBundleCourses(env *testEnv) (uint, []uint) {
	instructor := env.store.addUser("Ben", "ben@example.com", models.RoleInstructor)
	c1 := env.store.addCourse(instructor.ID, "Go Basics", 50, 0, models.CoursePublished)
	c2 := env.store.addCourse(instructor.ID, "Go Web", 40, 0, models.CoursePublished)
	c3 := env.store.addCourse(instructor.ID, "Go Testing", 30, 0, models.CoursePublished)
	return instructor.ID, []uint{c1.ID, c2.ID, c3.ID}
}

func TestCreateBundlePricing(t *testing.T) {
	env := newTestEnv()
	_, courseIDs := seedBundleCourses(env)

	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "everything Go", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "go-mastery-bundle", bundle.Slug)
	assert.Equal(t, 120.0, bundle.OriginalPrice)
	assert.Equal(t, 96.0, bundle.BundlePrice)
	assert.Equal(t, 24.0, Savings(*bundle))
	assert.Len(t, bundle.Courses, 3)
}

func TestCreateBundleRejectsEmptySet(t *testing.T) {
	env := newTestEnv()

	_, err := env.bundles.CreateBundle("Empty", "", nil, 20, nil, nil, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateBundleRejectsUnpublishedCourse(t *testing.T) {
	env := newTestEnv()
	instructor := env.store.addUser("Ben", "ben@example.com", models.RoleInstructor)
	draft := env.store.addCourse(instructor.ID, "Draft", 50, 0, models.CourseDraft)

	_, err := env.bundles.CreateBundle("Bad Bundle", "", []uint{draft.ID}, 10, nil, nil, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPolicyViolation))
}

func TestUpdateDiscountReprices(t *testing.T) {
	env := newTestEnv()
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)

	pct := 50.0
	updated, err := env.bundles.UpdateBundle(bundle.ID, BundleUpdate{DiscountPercent: &pct})
	require.NoError(t, err)

	assert.Equal(t, 120.0, updated.OriginalPrice)
	assert.Equal(t, 60.0, updated.BundlePrice)
}

func TestAddAndRemoveCourseReprices(t *testing.T) {
	env := newTestEnv()
	instructorID, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs[:2], 20, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 90.0, bundle.OriginalPrice)

	extra := env.store.addCourse(instructorID, "Go Concurrency", 60, 0, models.CoursePublished)
	grown, err := env.bundles.AddCourse(bundle.ID, extra.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, grown.OriginalPrice)
	assert.Equal(t, 120.0, grown.BundlePrice)

	shrunk, err := env.bundles.RemoveCourse(bundle.ID, courseIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 100.0, shrunk.OriginalPrice)
	assert.Equal(t, 80.0, shrunk.BundlePrice)
}

func TestAddCourseTwiceFails(t *testing.T) {
	env := newTestEnv()
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)

	_, err = env.bundles.AddCourse(bundle.ID, courseIDs[0])
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestIsAvailable(t *testing.T) {
	env := newTestEnv()
	now := time.Now()

	assert.True(t, env.bundles.IsAvailable(&models.Bundle{IsActive: true}, now))
	assert.False(t, env.bundles.IsAvailable(&models.Bundle{IsActive: false}, now))

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	assert.False(t, env.bundles.IsAvailable(&models.Bundle{IsActive: true, StartDate: &future}, now))
	assert.False(t, env.bundles.IsAvailable(&models.Bundle{IsActive: true, EndDate: &past}, now))

	limit := 10
	assert.False(t, env.bundles.IsAvailable(&models.Bundle{IsActive: true, MaxPurchases: &limit, PurchaseCount: 10}, now))
	assert.True(t, env.bundles.IsAvailable(&models.Bundle{IsActive: true, MaxPurchases: &limit, PurchaseCount: 9}, now))
}

func TestPurchaseBundleCreatesProratedOrder(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)

	order, session, err := env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 120.0, order.Subtotal)
	assert.Equal(t, 24.0, order.Discount)
	assert.Equal(t, 96.0, order.Total)
	require.NotNil(t, order.BundleID)

	// Item prices are pro-rated and sum exactly to the bundle price.
	require.Len(t, order.Items, 3)
	var sum float64
	for _, item := range order.Items {
		sum += item.Price
	}
	assert.Equal(t, 96.0, round2(sum))
	assert.Equal(t, 40.0, order.Items[0].Price) // 50/120 of 96
}

func TestProratedItemsNeverNegative(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	instructor := env.store.addUser("Ben", "ben@example.com", models.RoleInstructor)

	// Four equal-priced courses at a steep discount make every rounded
	// share overshoot, leaving the last item a negative remainder
	// before the floor.
	var courseIDs []uint
	for _, title := range []string{"One", "Two", "Three", "Four"} {
		c := env.store.addCourse(instructor.ID, "Micro "+title, 1, 0, models.CoursePublished)
		courseIDs = append(courseIDs, c.ID)
	}
	bundle, err := env.bundles.CreateBundle("Micro Bundle", "", courseIDs, 99.5, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0.02, bundle.BundlePrice)

	order, _, err := env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	require.NoError(t, err)

	require.Len(t, order.Items, 4)
	for _, item := range order.Items {
		assert.GreaterOrEqual(t, item.Price, 0.0)
		assert.GreaterOrEqual(t, item.InstructorShare, 0.0)
	}
	assert.Equal(t, 0.0, order.Items[3].Price)
}

func TestPurchaseBundleSettlement(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)
	order, _, err := env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	require.NoError(t, err)

	require.NoError(t, env.checkout.OnPaymentConfirmed(order.ID, "pay_ref"))
	// Duplicate delivery.
	require.NoError(t, env.checkout.OnPaymentConfirmed(order.ID, "pay_ref"))

	for _, courseID := range courseIDs {
		enrolled, err := env.store.Enrollments().Exists(user.ID, courseID)
		require.NoError(t, err)
		assert.True(t, enrolled)
	}

	stored, err := env.store.Bundles().GetByID(bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PurchaseCount)

	earnings, err := env.store.Earnings().ListByOrder(order.ID)
	require.NoError(t, err)
	assert.Len(t, earnings, 3)
}

func TestPurchaseInactiveBundle(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)
	inactive := false
	_, err = env.bundles.UpdateBundle(bundle.ID, BundleUpdate{IsActive: &inactive})
	require.NoError(t, err)

	_, _, err = env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPolicyViolation))
}

func TestPurchaseBundleWhenAllCoursesOwned(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	_, courseIDs := seedBundleCourses(env)
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, nil)
	require.NoError(t, err)
	for _, courseID := range courseIDs {
		require.NoError(t, env.store.Enrollments().CreateIfNotExists(user.ID, courseID))
	}

	_, _, err = env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestPurchaseBundleAtCap(t *testing.T) {
	env := newTestEnv()
	user := env.store.addUser("Ada", "ada@example.com", models.RoleUser)
	_, courseIDs := seedBundleCourses(env)
	limit := 1
	bundle, err := env.bundles.CreateBundle("Go Mastery Bundle", "", courseIDs, 20, nil, nil, &limit)
	require.NoError(t, err)
	order, _, err := env.bundles.PurchaseBundle(user.ID, bundle.ID, user.Email)
	require.NoError(t, err)
	require.NoError(t, env.checkout.OnPaymentConfirmed(order.ID, "pay_ref"))

	other := env.store.addUser("Eve", "eve@example.com", models.RoleUser)
	_, _, err = env.bundles.PurchaseBundle(other.ID, bundle.ID, other.Email)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPolicyViolation))
}
