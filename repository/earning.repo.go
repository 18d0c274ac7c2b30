package repository

import (
	"edumart/models"
	"time"

	"gorm.io/gorm"
)

type earningRepo struct {
	db *gorm.DB
}

func (r *earningRepo) CreateBatch(earnings []models.InstructorEarning) error {
	if len(earnings) == 0 {
		return nil
	}
	return r.db.Create(&earnings).Error
}

func (r *earningRepo) ExistsForOrder(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.InstructorEarning{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *earningRepo) ListByOrder(orderID uint) ([]models.InstructorEarning, error) {
	var earnings []models.InstructorEarning
	err := r.db.Where("order_id = ?", orderID).Find(&earnings).Error
	return earnings, err
}

func (r *earningRepo) ListAvailable(instructorID uint) ([]models.InstructorEarning, error) {
	var earnings []models.InstructorEarning
	err := r.db.
		Where("instructor_id = ? AND status = ?", instructorID, models.EarningAvailable).
		Order("created_at ASC").
		Find(&earnings).Error
	return earnings, err
}

func (r *earningRepo) SumByStatus(instructorID uint, status string) (float64, error) {
	var sum float64
	err := r.db.Model(&models.InstructorEarning{}).
		Where("instructor_id = ? AND status = ?", instructorID, status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *earningRepo) Save(earning *models.InstructorEarning) error {
	return r.db.Save(earning).Error
}

func (r *earningRepo) MatureBefore(cutoff time.Time) (int64, error) {
	result := r.db.Model(&models.InstructorEarning{}).
		Where("status = ? AND available_at IS NOT NULL AND available_at <= ?", models.EarningPending, cutoff).
		Update("status", models.EarningAvailable)
	return result.RowsAffected, result.Error
}
