// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/database"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

// OrderNotifier is told about every order once it has been committed.
type OrderNotifier interface {
	SendOrderConfirmation(order *models.Order) error
}

type OrderService struct {
	db       *gorm.DB
	notifier OrderNotifier
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB, notifier OrderNotifier) *OrderService {
	return &OrderService{
		db:       db,
		notifier: notifier,
	}
}

// CreateOrder turns the user's cart into an order. Everything happens in
// one transaction: if any product cannot cover its quantity, no order is
// written, no stock moves and the cart is left as it was.
func (s *OrderService) CreateOrder(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	var orderID uuid.UUID

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Order("created_at").Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		for i := range items {
			total = total.Add(items[i].LineTotal())
		}

		address, err := s.resolveShippingAddress(tx, userID, req.ShippingAddress)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     total.Round(2),
			ShippingAddress: address,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range items {
			if item.Product.ID == uuid.Nil {
				return ErrProductUnavailable
			}

			if err := decrementStock(tx, &item); err != nil {
				return err
			}

			orderItem := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			}
			if err := tx.Create(orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.loadOrder(s.db.Where("id = ?", orderID))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount.StringFixed(2),
		"items":    len(order.Items),
	}).Info("Order placed")

	s.notify(order)
	return order, nil
}

// decrementStock takes the cart quantity off the product only if enough
// stock remains, so concurrent orders cannot oversell.
func decrementStock(tx *gorm.DB, item *models.CartItem) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		Update("stock", gorm.Expr("stock - ?", item.Quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to update stock: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var current models.Product
	if err := tx.Select("stock").First(&current, "id = ?", item.ProductID).Error; err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": item.ProductID,
		"requested":  item.Quantity,
		"available":  current.Stock,
	}).Warn("Insufficient stock for order")

	return &InsufficientStockError{ProductName: item.Product.Name, Available: current.Stock}
}

// resolveShippingAddress prefers the request value, then the profile's
// address.
func (s *OrderService) resolveShippingAddress(tx *gorm.DB, userID uuid.UUID, requested string) (string, error) {
	if address := strings.TrimSpace(requested); address != "" {
		return address, nil
	}

	var profile models.Profile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	if address := profile.ShippingAddress(); address != "" {
		return address, nil
	}
	return "", ErrMissingShippingAddress
}

func (s *OrderService) notify(order *models.Order) {
	if s.notifier == nil {
		return
	}

	go func() {
		if err := s.notifier.SendOrderConfirmation(order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to send order confirmation")
		}
	}()
}

func (s *OrderService) ListOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(withOrderDetails(query).Order("created_at DESC"), params).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// GetOrder returns the order only when it belongs to userID.
func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*models.Order, error) {
	return s.loadOrder(s.db.Where("id = ? AND user_id = ?", orderID, userID))
}

// UpdateStatus is the staff-only transition to any order status.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	result := s.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", req.Status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	logrus.WithFields(logrus.Fields{"order_id": orderID, "status": req.Status}).Info("Order status updated")
	return s.loadOrder(s.db.Where("id = ?", orderID))
}

// setPaymentReference records the payment intent for a pending order.
func (s *OrderService) setPaymentReference(orderID uuid.UUID, reference string) error {
	return s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("payment_reference", reference).Error
}

// markPaid moves a pending order to processing. It reports false when the
// order had already left the pending state.
func (s *OrderService) markPaid(orderID uuid.UUID) (bool, error) {
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusProcessing)
	return result.RowsAffected > 0, result.Error
}

func (s *OrderService) Count(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *OrderService) loadOrder(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := withOrderDetails(query).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// withOrderDetails preloads items with their products, including products
// deleted since the order was placed.
func withOrderDetails(query *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return query.
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product", unscoped).
		Preload("Items.Product.Category", unscoped)
}
