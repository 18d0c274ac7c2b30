package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

var liveStatuses = []string{
	models.SubscriptionTrialing,
	models.SubscriptionActive,
	models.SubscriptionPastDue,
}

type subscriptionRepo struct {
	db *gorm.DB
}

func (r *subscriptionRepo) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Preload("Plan").First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("subscription not found")
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) GetLiveByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND status IN ?", userID, liveStatuses).
		Preload("Plan").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) GetByProviderID(providerSubID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("provider_sub_id = ?", providerSubID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepo) Save(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *subscriptionRepo) ListPeriodEnded(now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("status IN ? AND current_period_end <= ?", liveStatuses, now).
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepo) ListExpiringBetween(from, to time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Where("status IN ? AND reminder_sent = false", liveStatuses).
		Where("current_period_end BETWEEN ? AND ?", from, to).
		Preload("Plan").
		Find(&subs).Error
	return subs, err
}
