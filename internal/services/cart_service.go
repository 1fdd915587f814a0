// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type CartService struct {
	db *gorm.DB
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) ListItems(userID uuid.UUID, params utils.PaginationParams) ([]models.CartItem, int64, error) {
	query := s.db.Model(&models.CartItem{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	var items []models.CartItem
	err := utils.ApplyPagination(query.Preload("Product.Category").Order("created_at"), params).Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, total, nil
}

// AddItem validates the product and requested quantity, then merges into
// the existing row for the same product if there is one.
func (s *CartService) AddItem(userID uuid.UUID, req *AddToCartRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	product, err := loadProduct(s.db, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > product.Stock {
		return nil, &StockExceededError{Available: product.Stock}
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}

	var item models.CartItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
		switch {
		case err == nil:
			return tx.Model(&models.CartItem{}).Where("id = ?", item.ID).
				Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
			return tx.Create(&item).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return s.GetItem(userID, item.ID)
}

// GetItem returns the cart row only when it belongs to userID.
func (s *CartService) GetItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.Preload("Product.Category").Where("user_id = ?", userID).First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}

func (s *CartService) UpdateItem(userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.CartItem, error) {
	item, err := s.GetItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if req.Quantity > item.Product.Stock {
		return nil, &StockExceededError{Available: item.Product.Stock}
	}

	if err := s.db.Model(&models.CartItem{}).Where("id = ?", item.ID).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return s.GetItem(userID, itemID)
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CartService) Clear(userID uuid.UUID) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *CartService) Count(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// loadProduct finds any non-deleted product, active or not.
func loadProduct(db *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
