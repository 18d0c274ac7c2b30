package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type planRepo struct {
	db *gorm.DB
}

func (r *planRepo) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("plan not found")
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) GetBySlug(slug string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("slug = ?", slug).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("plan not found")
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) List(activeOnly bool) ([]models.SubscriptionPlan, error) {
	query := r.db.Model(&models.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("is_active = true")
	}
	var plans []models.SubscriptionPlan
	err := query.Order("monthly_price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepo) Create(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *planRepo) Save(plan *models.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}
