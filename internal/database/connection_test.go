package database_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/database"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/testutil"
)

func TestSeedCatalogIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedCatalog(db))
	require.NoError(t, database.SeedCatalog(db))

	var categories, products, users int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.User{}).Count(&users)

	assert.EqualValues(t, 4, categories)
	assert.EqualValues(t, 10, products)
	assert.EqualValues(t, 1, users)

	var profile models.Profile
	require.NoError(t, db.Joins("User").Where("User.username = ?", "testuser").First(&profile).Error)
	assert.Equal(t, "123 Test Street, Test City, Test Country", profile.ShippingAddress())
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedAdmin(db, config.AdminConfig{}))
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)

	cfg := config.AdminConfig{Username: "admin", Email: "admin@example.com", Password: "s3cret-pass"}
	require.NoError(t, database.SeedAdmin(db, cfg))
	require.NoError(t, database.SeedAdmin(db, cfg))

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsStaff)
	assert.NoError(t, admin.CheckPassword("s3cret-pass"))
}

func TestRunMigrationsStoresAuditPayload(t *testing.T) {
	db := testutil.NewTestDB(t)

	// A second run must be a no-op on an already migrated schema.
	require.NoError(t, database.RunMigrations(db))

	entry := &models.AuditLog{
		Action:  "POST /api/cart/add",
		Payload: models.JSONB{"quantity": float64(2)},
	}
	require.NoError(t, db.Create(entry).Error)

	var stored models.AuditLog
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, float64(2), stored.Payload["quantity"])
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)

	boom := errors.New("boom")
	err := database.WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Category{Name: "Ephemeral"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	db.Model(&models.Category{}).Where("name = ?", "Ephemeral").Count(&count)
	assert.Zero(t, count)
}
