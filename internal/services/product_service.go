// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type ProductFilter struct {
	Category string
	Search   string
	utils.PaginationParams
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Image       string          `json:"image" validate:"omitempty,url,max=500"`
	IsActive    *bool           `json:"is_active"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Image       *string          `json:"image" validate:"omitempty,max=500"`
	IsActive    *bool            `json:"is_active"`
	CategoryID  *uuid.UUID       `json:"category_id"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ListProducts returns active products, newest first, optionally filtered
// by category id and a case-insensitive search over name and description.
func (s *ProductService) ListProducts(filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("is_active = ?", true)

	if filter.Category != "" {
		categoryID, err := uuid.Parse(filter.Category)
		if err != nil {
			return []models.Product{}, 0, nil
		}
		query = query.Where("category_id = ?", categoryID)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := utils.ApplyPagination(query.Preload("Category").Order("created_at DESC"), filter.PaginationParams).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	if err := s.AttachRatings(products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetProduct returns an active product with its category and rating.
func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Where("is_active = ?", true).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	products := []models.Product{product}
	if err := s.AttachRatings(products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// AttachRatings fills AverageRating for each product with one grouped
// query.
func (s *ProductService) AttachRatings(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	var rows []struct {
		ProductID uuid.UUID
		Average   float64
	}
	err := s.db.Model(&models.Review{}).
		Select("product_id, AVG(rating) AS average").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to compute ratings: %w", err)
	}

	averages := make(map[uuid.UUID]float64, len(rows))
	for _, row := range rows {
		averages[row.ProductID] = math.Round(row.Average*100) / 100
	}
	for i := range products {
		products[i].AverageRating = averages[products[i].ID]
	}
	return nil
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Image:       req.Image,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CategoryID:  req.CategoryID,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("Product created")
	return s.getAny(product.ID)
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}
	if _, err := s.getAny(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(*req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return s.getAny(id)
}

// DeleteProduct soft-deletes the product so past order items keep their
// reference.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

// AllProducts returns every product, active or not, for export.
func (s *ProductService) AllProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Preload("Category").Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if err := s.AttachRatings(products); err != nil {
		return nil, err
	}
	return products, nil
}

// getAny loads a product regardless of is_active, for staff views.
func (s *ProductService) getAny(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	products := []models.Product{product}
	if err := s.AttachRatings(products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ProductService) ensureCategory(id uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return &ValidationError{Err: errors.New("price must be greater than zero")}
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
