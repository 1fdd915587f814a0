// internal/services/profile_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type ProfileService struct {
	db *gorm.DB
}

// UpdateProfileRequest holds the writable profile fields. Nil fields are
// left unchanged, which lets PUT and PATCH share one code path.
type UpdateProfileRequest struct {
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=20"`
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile returns the user's profile, creating an empty one on first
// access.
func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	return s.getOrCreate(s.db, userID)
}

func (s *ProfileService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	profile, err := s.getOrCreate(s.db, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.PostalCode != nil {
		updates["postal_code"] = *req.PostalCode
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.getOrCreate(s.db, userID)
}

func (s *ProfileService) getOrCreate(db *gorm.DB, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	profile = models.Profile{UserID: userID}
	if err := db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	profile.User = user
	return &profile, nil
}
