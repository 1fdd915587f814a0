// internal/services/review_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type ReviewService struct {
	db       *gorm.DB
	products *ProductService
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"required"`
}

func NewReviewService(db *gorm.DB, products *ProductService) *ReviewService {
	return &ReviewService{
		db:       db,
		products: products,
	}
}

// ListProductReviews returns the product's reviews, newest first. An
// unknown product simply has no reviews.
func (s *ReviewService) ListProductReviews(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []models.Review
	err := utils.ApplyPagination(query.Preload("User").Preload("Product.Category").Order("created_at DESC"), params).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}

	if err := s.attachProductRatings(reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if _, err := loadProduct(s.db, req.ProductID); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review created")

	var created models.Review
	if err := s.db.Preload("User").Preload("Product.Category").First(&created, "id = ?", review.ID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	reviews := []models.Review{created}
	if err := s.attachProductRatings(reviews); err != nil {
		return nil, err
	}
	return &reviews[0], nil
}

func (s *ReviewService) attachProductRatings(reviews []models.Review) error {
	products := make([]models.Product, len(reviews))
	for i := range reviews {
		products[i] = reviews[i].Product
	}
	if err := s.products.AttachRatings(products); err != nil {
		return err
	}
	for i := range reviews {
		reviews[i].Product.AverageRating = products[i].AverageRating
	}
	return nil
}
