// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

const lowStockThreshold = 5

var ErrCannotModifyUser = errors.New("cannot change the status of a staff user")

var paidStatuses = []models.OrderStatus{
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalUsers        int64                        `json:"total_users"`
	ActiveUsers       int64                        `json:"active_users"`
	NewUsersThisMonth int64                        `json:"new_users_this_month"`
	TotalOrders       int64                        `json:"total_orders"`
	OrdersByStatus    map[models.OrderStatus]int64 `json:"orders_by_status"`
	TotalRevenue      decimal.Decimal              `json:"total_revenue"`
	MonthlyRevenue    decimal.Decimal              `json:"monthly_revenue"`
	RevenueGrowth     float64                      `json:"revenue_growth"`
	LowStockCount     int64                        `json:"low_stock_count"`
	LowStockProducts  []models.Product             `json:"low_stock_products"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Search   string
	IsActive *bool
	IsStaff  *bool
}

type AdminOrderFilter struct {
	utils.PaginationParams
	Status *models.OrderStatus
	UserID *uuid.UUID
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// AdminUser exposes the account flags that the public user JSON hides.
type AdminUser struct {
	models.User
	IsStaff     bool       `json:"is_staff"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{OrdersByStatus: map[models.OrderStatus]int64{}}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User statistics
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	// Order statistics
	var byStatus []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := s.db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	for _, row := range byStatus {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}

	// Revenue statistics
	var err error
	if stats.TotalRevenue, err = s.revenue(time.Time{}, time.Time{}); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.revenue(monthStart, time.Time{}); err != nil {
		return nil, err
	}
	lastMonthRevenue, err := s.revenue(lastMonthStart, monthStart)
	if err != nil {
		return nil, err
	}
	if lastMonthRevenue.IsPositive() {
		stats.RevenueGrowth = stats.MonthlyRevenue.Sub(lastMonthRevenue).
			Div(lastMonthRevenue).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	// Inventory: the count covers every low-stock product, the list the ten lowest.
	lowStock := s.db.Model(&models.Product{}).Where("is_active = ? AND stock <= ?", true, lowStockThreshold)
	if err := lowStock.Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}
	err = s.db.Preload("Category").
		Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
		Order("stock, name").Limit(10).
		Find(&stats.LowStockProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return stats, nil
}

// revenue sums paid orders created in [from, to); zero bounds are open.
func (s *AdminService) revenue(from, to time.Time) (decimal.Decimal, error) {
	query := s.db.Model(&models.Order{}).Where("status IN ?", paidStatuses)
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}

	var total decimal.NullDecimal
	if err := query.Select("SUM(total_amount)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]AdminUser, int64, error) {
	query := s.db.Model(&models.User{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsStaff != nil {
		query = query.Where("is_staff = ?", *filter.IsStaff)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := utils.ApplyPagination(query.Order("username"), filter.PaginationParams).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	result := make([]AdminUser, len(users))
	for i, u := range users {
		result[i] = toAdminUser(u)
	}
	return result, total, nil
}

// UpdateUserStatus activates or deactivates a customer account. Staff
// accounts, including the caller's own, cannot be changed this way.
func (s *AdminService) UpdateUserStatus(userID uuid.UUID, req *UpdateUserStatusRequest, adminID uuid.UUID) (*AdminUser, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.IsStaff || user.ID == adminID {
		return nil, ErrCannotModifyUser
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("is_active", *req.IsActive).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}
	user.IsActive = *req.IsActive

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"admin_id":  adminID,
		"is_active": user.IsActive,
	}).Info("User status updated")

	result := toAdminUser(user)
	return &result, nil
}

// Order Management
func (s *AdminService) GetOrders(filter AdminOrderFilter) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(withOrderDetails(query).Order("created_at DESC"), filter.PaginationParams).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, total, nil
}

func toAdminUser(u models.User) AdminUser {
	return AdminUser{
		User:        u,
		IsStaff:     u.IsStaff,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}
