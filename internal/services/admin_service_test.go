package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/testutil"
)

func TestAdminDashboardStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	orders := NewOrderService(db, nil)
	svc := NewAdminService(db)

	buyer := testutil.CreateUser(t, db, "buyer")
	idle := testutil.CreateUser(t, db, "idle")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", idle.ID).Update("is_active", false).Error)

	cat := testutil.CreateCategory(t, db, "Books")
	atlas := testutil.CreateProduct(t, db, cat, "Atlas", "20.00", 6)
	testutil.CreateProduct(t, db, cat, "Dictionary", "15.00", 50)

	testutil.AddToCart(t, db, buyer, atlas, 2)
	paid := placeOrder(t, orders, buyer)
	_, err := orders.UpdateStatus(paid.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusShipped})
	require.NoError(t, err)

	testutil.AddToCart(t, db, buyer, atlas, 1)
	placeOrder(t, orders, buyer)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ActiveUsers)
	assert.EqualValues(t, 2, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.OrdersByStatus[models.OrderStatusPending])
	assert.EqualValues(t, 1, stats.OrdersByStatus[models.OrderStatusShipped])
	// only the shipped order counts as revenue
	assert.Equal(t, "40.00", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, "40.00", stats.MonthlyRevenue.StringFixed(2))

	assert.EqualValues(t, 1, stats.LowStockCount)
	require.Len(t, stats.LowStockProducts, 1)
	assert.Equal(t, "Atlas", stats.LowStockProducts[0].Name)
	assert.Equal(t, 3, stats.LowStockProducts[0].Stock)

	// the count is not capped by the length of the list
	for i := 0; i < 11; i++ {
		testutil.CreateProduct(t, db, cat, fmt.Sprintf("Pamphlet %02d", i), "1.00", 1)
	}
	stats, err = svc.GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 12, stats.LowStockCount)
	assert.Len(t, stats.LowStockProducts, 10)
	assert.Equal(t, 1, stats.LowStockProducts[0].Stock)
}

func TestAdminUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewAdminService(db)

	admin := testutil.CreateUser(t, db, "admin")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_staff", true).Error)
	customer := testutil.CreateUser(t, db, "customer")
	testutil.CreateUser(t, db, "another")

	users, total, err := svc.GetUsers(AdminUserFilter{Search: "CUST", PaginationParams: firstPage})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, customer.ID, users[0].ID)

	body, err := json.Marshal(users[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"is_active":true`)
	assert.NotContains(t, string(body), "password")

	staff := true
	users, total, err = svc.GetUsers(AdminUserFilter{IsStaff: &staff, PaginationParams: firstPage})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "admin", users[0].Username)

	inactive := false
	updated, err := svc.UpdateUserStatus(customer.ID, &UpdateUserStatusRequest{IsActive: &inactive}, admin.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateUserStatus(admin.ID, &UpdateUserStatusRequest{IsActive: &inactive}, admin.ID)
	assert.ErrorIs(t, err, ErrCannotModifyUser)

	_, err = svc.UpdateUserStatus(uuid.New(), &UpdateUserStatusRequest{IsActive: &inactive}, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateUserStatus(customer.ID, &UpdateUserStatusRequest{}, admin.ID)
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestAdminOrders(t *testing.T) {
	db := testutil.NewTestDB(t)
	orders := NewOrderService(db, nil)
	svc := NewAdminService(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	cat := testutil.CreateCategory(t, db, "Books")
	atlas := testutil.CreateProduct(t, db, cat, "Atlas", "20.00", 10)

	testutil.AddToCart(t, db, alice, atlas, 1)
	placeOrder(t, orders, alice)
	testutil.AddToCart(t, db, bob, atlas, 1)
	bobs := placeOrder(t, orders, bob)
	_, err := orders.UpdateStatus(bobs.ID, &UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	require.NoError(t, err)

	all, total, err := svc.GetOrders(AdminOrderFilter{PaginationParams: firstPage})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	cancelled := models.OrderStatusCancelled
	filtered, total, err := svc.GetOrders(AdminOrderFilter{Status: &cancelled, PaginationParams: firstPage})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bobs.ID, filtered[0].ID)

	filtered, total, err = svc.GetOrders(AdminOrderFilter{UserID: &alice.ID, PaginationParams: firstPage})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "alice", filtered[0].User.Username)
}
