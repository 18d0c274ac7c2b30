package services

import (
	"edumart/apperrors"
	"edumart/models"
	"edumart/repository"
)

// CartService manages candidate purchases for users and anonymous sessions.
type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

// GetOrCreate fetches the cart owned by userID (when non-zero) or by the
// anonymous session, creating an empty one if absent.
func (s *CartService) GetOrCreate(userID uint, sessionID string) (*models.Cart, error) {
	cart, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{SessionID: sessionID}
	if userID != 0 {
		cart.UserID = &userID
	}
	if err := s.store.Carts().Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts a course into the cart. Adding the same course twice is a
// no-op; a course the user already owns is rejected.
func (s *CartService) AddItem(userID uint, sessionID string, courseID uint) (*models.Cart, error) {
	course, err := s.store.Courses().GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CoursePublished {
		return nil, apperrors.PolicyViolation("course is not available for purchase")
	}

	if userID != 0 {
		enrolled, err := s.store.Enrollments().Exists(userID, courseID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, apperrors.Conflict("already enrolled in this course")
		}
	}

	cart, err := s.GetOrCreate(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Carts().AddItem(cart.ID, courseID); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByID(cart.ID)
}

func (s *CartService) RemoveItem(userID uint, sessionID string, courseID uint) (*models.Cart, error) {
	cart, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperrors.NotFound("cart not found")
	}
	if err := s.store.Carts().RemoveItem(cart.ID, courseID); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByID(cart.ID)
}

// MergeGuestCart folds an anonymous session cart into the user's cart on
// login. Items the user already has (in cart or as enrollments) are
// skipped; the guest cart is deleted afterwards.
func (s *CartService) MergeGuestCart(sessionID string, userID uint) (*models.Cart, error) {
	guest, err := s.store.Carts().GetBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return s.GetOrCreate(userID, "")
	}

	var merged *models.Cart
	err = s.store.Atomic(func(tx repository.Store) error {
		cart, err := tx.Carts().GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{UserID: &userID}
			if err := tx.Carts().Create(cart); err != nil {
				return err
			}
		}

		for _, item := range guest.Items {
			enrolled, err := tx.Enrollments().Exists(userID, item.CourseID)
			if err != nil {
				return err
			}
			if enrolled {
				continue
			}
			if err := tx.Carts().AddItem(cart.ID, item.CourseID); err != nil {
				return err
			}
		}

		if err := tx.Carts().Delete(guest.ID); err != nil {
			return err
		}

		merged, err = tx.Carts().GetByID(cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Totals computes the cart subtotal from effective course prices.
func (s *CartService) Totals(cart *models.Cart) float64 {
	var subtotal float64
	for _, item := range cart.Items {
		subtotal += EffectivePrice(item.Course)
	}
	return round2(subtotal)
}

func (s *CartService) lookup(userID uint, sessionID string) (*models.Cart, error) {
	if userID != 0 {
		return s.store.Carts().GetByUser(userID)
	}
	if sessionID != "" {
		return s.store.Carts().GetBySession(sessionID)
	}
	return nil, apperrors.Validation("cart owner is required")
}
