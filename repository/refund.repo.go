package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type refundRepo struct {
	db *gorm.DB
}

func (r *refundRepo) GetByID(id uint) (*models.Refund, error) {
	var refund models.Refund
	if err := r.db.Preload("Order").First(&refund, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("refund not found")
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepo) GetByOrderID(orderID uint) (*models.Refund, error) {
	var refund models.Refund
	err := r.db.Where("order_id = ?", orderID).First(&refund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepo) Create(refund *models.Refund) error {
	return r.db.Create(refund).Error
}

func (r *refundRepo) Save(refund *models.Refund) error {
	return r.db.Save(refund).Error
}

func (r *refundRepo) List(status string, page, limit int) ([]models.Refund, int64, error) {
	query := r.db.Model(&models.Refund{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var refunds []models.Refund
	err := query.
		Preload("Order").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, total, err
}

func (r *refundRepo) ListByUser(userID uint) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}
