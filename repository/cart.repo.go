package repository

import (
	"edumart/apperrors"
	"edumart/models"
	"errors"

	"gorm.io/gorm"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("id = ?", id).
		Preload("Items").Preload("Items.Course").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cart not found")
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").Preload("Items.Course").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) GetBySession(sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("session_id = ? AND user_id IS NULL", sessionID).
		Preload("Items").Preload("Items.Course").
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

func (r *cartRepo) AddItem(cartID, courseID uint) error {
	var existing models.CartItem
	err := r.db.Where("cart_id = ? AND course_id = ?", cartID, courseID).First(&existing).Error
	if err == nil {
		return nil // already in cart
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.CartItem{CartID: cartID, CourseID: courseID}).Error
}

func (r *cartRepo) RemoveItem(cartID, courseID uint) error {
	return r.db.Unscoped().
		Where("cart_id = ? AND course_id = ?", cartID, courseID).
		Delete(&models.CartItem{}).Error
}

func (r *cartRepo) ClearItems(cartID uint) error {
	return r.db.Unscoped().Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *cartRepo) Delete(cartID uint) error {
	if err := r.ClearItems(cartID); err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&models.Cart{}, cartID).Error
}
