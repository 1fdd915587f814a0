// internal/services/dashboard_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
)

type DashboardService struct {
	db       *gorm.DB
	cart     *CartService
	wishlist *WishlistService
	orders   *OrderService
}

// DashboardStats always carries the catalog counters; the per-user
// counters are present only for an authenticated caller.
type DashboardStats struct {
	TotalProducts   int64  `json:"total_products"`
	TotalCategories int64  `json:"total_categories"`
	CartItems       *int64 `json:"cart_items,omitempty"`
	WishlistItems   *int64 `json:"wishlist_items,omitempty"`
	TotalOrders     *int64 `json:"total_orders,omitempty"`
}

func NewDashboardService(db *gorm.DB, cart *CartService, wishlist *WishlistService, orders *OrderService) *DashboardService {
	return &DashboardService{
		db:       db,
		cart:     cart,
		wishlist: wishlist,
		orders:   orders,
	}
}

func (s *DashboardService) GetStats(userID *uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	if userID == nil {
		return stats, nil
	}

	cartItems, err := s.cart.Count(*userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cart items: %w", err)
	}
	wishlistItems, err := s.wishlist.Count(*userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count wishlist items: %w", err)
	}
	totalOrders, err := s.orders.Count(*userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	stats.CartItems = &cartItems
	stats.WishlistItems = &wishlistItems
	stats.TotalOrders = &totalOrders
	return stats, nil
}
