package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type courseRepo struct {
	db *gorm.DB
}

func (r *courseRepo) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.Where("id = ? AND is_deleted = false", id).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("course not found")
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByIDs(ids []uint) ([]models.Course, error) {
	var courses []models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	if err := r.db.Where("id IN ? AND is_deleted = false", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}
