// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/database"
	"github.com/javajoker/storefront-api/internal/models"
)

// NewTestDB opens a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive and
	// serializes writers the way a real server's row locks would.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// NewTestConfig returns a configuration suitable for router and service tests.
func NewTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		LogLevel:    "error",
		Database:    config.DatabaseConfig{Driver: "sqlite"},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		RateLimit:  config.RateLimitConfig{Enabled: false},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Pagination: config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Email:      config.EmailConfig{Provider: "none"},
		Payment:    config.PaymentConfig{Currency: "usd"},
	}
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateProfile(t *testing.T, db *gorm.DB, user *models.User, address, city, country string) *models.Profile {
	t.Helper()

	profile := &models.Profile{UserID: user.ID, Address: address, City: city, Country: country}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Description: name + " items"}
	require.NoError(t, db.Create(category).Error)
	return category
}

func CreateProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Description: "Description of " + name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsActive:    true,
		CategoryID:  category.ID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func AddToCart(t *testing.T, db *gorm.DB, user *models.User, product *models.Product, quantity int) *models.CartItem {
	t.Helper()

	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: quantity}
	require.NoError(t, db.Create(item).Error)
	return item
}

// Stock re-reads a product's current stock.
func Stock(t *testing.T, db *gorm.DB, productID interface{}) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Unscoped().Select("stock").First(&product, "id = ?", productID).Error)
	return product.Stock
}
