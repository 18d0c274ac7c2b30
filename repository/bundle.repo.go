package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type bundleRepo struct {
	db *gorm.DB
}

func (r *bundleRepo) GetByID(id uint) (*models.Bundle, error) {
	var bundle models.Bundle
	err := r.db.
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Courses.Course").
		First(&bundle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("bundle not found")
		}
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepo) GetBySlug(slug string) (*models.Bundle, error) {
	var bundle models.Bundle
	err := r.db.Where("slug = ?", slug).
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Courses.Course").
		First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("bundle not found")
		}
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepo) List(activeOnly bool) ([]models.Bundle, error) {
	query := r.db.Model(&models.Bundle{})
	if activeOnly {
		query = query.Where("is_active = true")
	}
	var bundles []models.Bundle
	err := query.
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Courses.Course").
		Order("created_at DESC").
		Find(&bundles).Error
	return bundles, err
}

func (r *bundleRepo) Create(bundle *models.Bundle) error {
	return r.db.Create(bundle).Error
}

func (r *bundleRepo) Save(bundle *models.Bundle) error {
	return r.db.Save(bundle).Error
}

func (r *bundleRepo) AddCourse(bc *models.BundleCourse) error {
	return r.db.Create(bc).Error
}

func (r *bundleRepo) RemoveCourse(bundleID, courseID uint) error {
	return r.db.Unscoped().
		Where("bundle_id = ? AND course_id = ?", bundleID, courseID).
		Delete(&models.BundleCourse{}).Error
}

func (r *bundleRepo) IncrementPurchaseCount(bundleID uint) (bool, error) {
	result := r.db.Model(&models.Bundle{}).
		Where("id = ? AND (max_purchases IS NULL OR purchase_count < max_purchases)", bundleID).
		Update("purchase_count", gorm.Expr("purchase_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *bundleRepo) CreatePurchase(purchase *models.BundlePurchase) error {
	return r.db.Create(purchase).Error
}

func (r *bundleRepo) PurchaseExistsForOrder(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.BundlePurchase{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}
