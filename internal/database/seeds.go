// internal/database/seeds.go
package database

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/models"
)

type seedProduct struct {
	Name        string
	Description string
	Price       string
	Stock       int
	Category    string
	Image       string
}

var seedCategories = []models.Category{
	{Name: "Snacks", Description: "Delicious snacks and treats", Image: "https://images.unsplash.com/photo-1575474041544-51f1d6f2ad18?w=400"},
	{Name: "Beverages", Description: "Refreshing drinks and beverages", Image: "https://images.unsplash.com/photo-1574943320222-0f4a7eab2160?w=400"},
	{Name: "Sweets", Description: "Sweet treats and candies", Image: "https://images.unsplash.com/photo-1571115764595-644a1f56a55c?w=400"},
	{Name: "Healthy", Description: "Nutritious and healthy options", Image: "https://images.unsplash.com/photo-1490474418585-ba9bad8fd0ea?w=400"},
}

var seedProducts = []seedProduct{
	{"Classic Potato Chips", "Crispy and salty potato chips made from premium potatoes.", "2.99", 50, "Snacks", "https://images.unsplash.com/photo-1566478989037-eec170784d0b?w=400"},
	{"Cheese Crackers", "Crunchy crackers with real cheese flavor.", "3.49", 30, "Snacks", "https://images.unsplash.com/photo-1601001815894-4bb6c81416d7?w=400"},
	{"Mixed Nuts", "Premium mix of roasted almonds, cashews, and peanuts.", "5.99", 25, "Snacks", "https://images.unsplash.com/photo-1579722820308-d74e571900a9?w=400"},
	{"Orange Juice", "Fresh squeezed orange juice, 100% natural.", "4.99", 20, "Beverages", "https://images.unsplash.com/photo-1621506289937-a8e4df240d0b?w=400"},
	{"Cola Drink", "Classic cola soft drink with a refreshing taste.", "1.99", 40, "Beverages", "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=400"},
	{"Green Tea", "Premium green tea with antioxidants.", "3.99", 15, "Beverages", "https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=400"},
	{"Chocolate Bar", "Rich dark chocolate bar with 70% cocoa.", "2.49", 35, "Sweets", "https://images.unsplash.com/photo-1511381939415-e44015466834?w=400"},
	{"Gummy Bears", "Colorful and chewy gummy bears in assorted flavors.", "1.99", 45, "Sweets", "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f?w=400"},
	{"Granola Bar", "Healthy granola bar with oats, nuts, and dried fruits.", "2.29", 30, "Healthy", "https://images.unsplash.com/photo-1607623814075-e51df1bdc82f?w=400"},
	{"Protein Shake", "High protein shake for post-workout nutrition.", "6.99", 20, "Healthy", "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=400"},
}

// SeedCatalog creates the sample categories, products and demo user. Rows
// are matched by name, so running it twice is a no-op.
func SeedCatalog(db *gorm.DB) error {
	logrus.Info("Seeding sample catalog...")

	return WithTransaction(db, func(tx *gorm.DB) error {
		byName := make(map[string]models.Category, len(seedCategories))
		for _, c := range seedCategories {
			category := c
			result := tx.Where(models.Category{Name: c.Name}).
				Attrs(models.Category{Description: c.Description, Image: c.Image}).
				FirstOrCreate(&category)
			if result.Error != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.Name, result.Error)
			}
			if result.RowsAffected > 0 {
				logrus.WithField("category", category.Name).Info("Created category")
			}
			byName[c.Name] = category
		}

		for _, p := range seedProducts {
			product := models.Product{
				Name:        p.Name,
				Description: p.Description,
				Price:       decimal.RequireFromString(p.Price),
				Stock:       p.Stock,
				Image:       p.Image,
				IsActive:    true,
				CategoryID:  byName[p.Category].ID,
			}
			result := tx.Where(models.Product{Name: p.Name}).Attrs(product).FirstOrCreate(&product)
			if result.Error != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Name, result.Error)
			}
			if result.RowsAffected > 0 {
				logrus.WithField("product", product.Name).Info("Created product")
			}
		}

		return seedDemoUser(tx)
	})
}

func seedDemoUser(tx *gorm.DB) error {
	var existing models.User
	err := tx.Where("username = ?", "testuser").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}

	user := &models.User{
		Username:  "testuser",
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	if err := user.SetPassword("testpass123"); err != nil {
		return fmt.Errorf("failed to set demo user password: %w", err)
	}
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	profile := &models.Profile{
		UserID:      user.ID,
		Address:     "123 Test Street",
		PhoneNumber: "+1234567890",
		City:        "Test City",
		Country:     "Test Country",
		PostalCode:  "12345",
	}
	if err := tx.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create demo profile: %w", err)
	}

	logrus.WithField("username", user.Username).Info("Created demo user")
	return nil
}

// SeedAdmin creates a staff user from config when one is configured and
// does not already exist.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username: cfg.Username,
		Email:    cfg.Email,
		IsStaff:  true,
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.Password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	return WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		if err := tx.Create(&models.Profile{UserID: admin.ID}).Error; err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}
		logrus.WithField("username", admin.Username).Info("Default admin user created")
		return nil
	})
}
