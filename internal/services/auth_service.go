// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// Register creates the user together with an empty profile and issues a
// token pair.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	user := &models.User{
		Username:  req.Username,
		Email:     strings.TrimSpace(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")
	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !user.IsActive || user.CheckPassword(req.Password) != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last login time
	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	return s.issueTokens(&user)
}

// Logout revokes the presented access token and the login session it
// belongs to, which also invalidates the refresh token issued with it.
func (s *AuthService) Logout(claims *utils.JWTClaims) error {
	userID, err := claims.ParsedUserID()
	if err != nil {
		return fmt.Errorf("invalid user ID in token: %w", err)
	}

	revoked := []models.RevokedToken{{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}}
	if claims.SessionID != "" {
		revoked = append(revoked, models.RevokedToken{
			JTI:       claims.SessionID,
			UserID:    userID,
			ExpiresAt: time.Now().Add(time.Duration(s.cfg.JWT.RefreshTokenTTL) * time.Hour),
		})
	}

	err = s.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&revoked).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	// Opportunistically drop revocations that can no longer matter.
	s.db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})
	return nil
}

// IsTokenRevoked reports whether the token itself or its session was
// revoked.
func (s *AuthService) IsTokenRevoked(claims *utils.JWTClaims) (bool, error) {
	ids := []string{claims.ID}
	if claims.SessionID != "" {
		ids = append(ids, claims.SessionID)
	}

	var count int64
	if err := s.db.Model(&models.RevokedToken{}).Where("jti IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckSession loads the account behind a still valid access token. The
// caller decides what an inactive account means.
func (s *AuthService) CheckSession(claims *utils.JWTClaims) (*models.User, error) {
	revoked, err := s.IsTokenRevoked(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	userID, err := claims.ParsedUserID()
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Select("id", "username", "is_active", "is_staff").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) RefreshToken(req *RefreshRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	claims, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if revoked, err := s.IsTokenRevoked(claims); err != nil || revoked {
		return nil, ErrInvalidCredentials
	}

	userID, err := claims.ParsedUserID()
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(&user)
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	pair, err := utils.GenerateTokenPair(user.ID, user.Username, user.IsStaff, s.cfg.JWT.AccessTokenTTL, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         user,
		Token:        pair.Access,
		RefreshToken: pair.Refresh,
	}, nil
}
