package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func (r *orderRepo) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepo) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("id = ?", id).
		Preload("Items").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ListByUser(userID uint, page, limit int) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Items").Preload("Items.Course").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Save(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepo) TransitionStatus(orderID uint, from []string, to string) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
