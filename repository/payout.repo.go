package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type payoutRepo struct {
	db *gorm.DB
}

func (r *payoutRepo) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.db.First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payout not found")
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepo) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

func (r *payoutRepo) Save(payout *models.Payout) error {
	return r.db.Save(payout).Error
}

func (r *payoutRepo) ListByInstructor(instructorID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepo) SumPendingByInstructor(instructorID uint) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Payout{}).
		Where("instructor_id = ? AND status = ?", instructorID, models.PayoutPending).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
