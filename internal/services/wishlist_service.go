// internal/services/wishlist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type WishlistService struct {
	db *gorm.DB
}

type AddToWishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) ListItems(userID uuid.UUID, params utils.PaginationParams) ([]models.WishlistItem, int64, error) {
	query := s.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	var items []models.WishlistItem
	err := utils.ApplyPagination(query.Preload("Product.Category").Order("created_at DESC"), params).Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	return items, total, nil
}

// AddItem returns the existing row for the product when there is one;
// created reports whether a new row was written.
func (s *WishlistService) AddItem(userID uuid.UUID, req *AddToWishlistRequest) (item *models.WishlistItem, created bool, err error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, &ValidationError{Err: err}
	}

	if _, err := loadProduct(s.db, req.ProductID); err != nil {
		return nil, false, err
	}

	var row models.WishlistItem
	err = s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&row).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.WishlistItem{UserID: userID, ProductID: req.ProductID}
		err = s.db.Create(&row).Error
		switch {
		case err == nil:
			created = true
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// lost a race with a concurrent add of the same product
			if err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&row).Error; err != nil {
				return nil, false, fmt.Errorf("database error: %w", err)
			}
		default:
			return nil, false, fmt.Errorf("failed to add to wishlist: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("database error: %w", err)
	}

	item, err = s.getItem(userID, row.ID)
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

func (s *WishlistService) RemoveItem(userID, itemID uuid.UUID) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.WishlistItem{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WishlistService) Count(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *WishlistService) getItem(userID, itemID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := s.db.Preload("Product.Category").Where("user_id = ?", userID).First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}
