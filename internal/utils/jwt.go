// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	tokenIssuer = "storefront-api"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("your-secret-key-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateJWT issues an access token carrying a unique jti so that it can
// be revoked individually.
func GenerateJWT(userID uuid.UUID, username string, isStaff bool, ttlHours int) (string, *JWTClaims, error) {
	return generate(userID, username, isStaff, TokenTypeAccess, uuid.NewString(), ttlHours)
}

func GenerateRefreshToken(userID uuid.UUID, username string, isStaff bool, ttlHours int) (string, *JWTClaims, error) {
	return generate(userID, username, isStaff, TokenTypeRefresh, uuid.NewString(), ttlHours)
}

// TokenPair is an access and a refresh token bound to one login session.
type TokenPair struct {
	Access        string
	Refresh       string
	AccessClaims  *JWTClaims
	RefreshClaims *JWTClaims
}

// GenerateTokenPair issues both tokens with the same sid, so revoking the
// session invalidates them together.
func GenerateTokenPair(userID uuid.UUID, username string, isStaff bool, accessTTL, refreshTTL int) (*TokenPair, error) {
	sessionID := uuid.NewString()

	access, accessClaims, err := generate(userID, username, isStaff, TokenTypeAccess, sessionID, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshClaims, err := generate(userID, username, isStaff, TokenTypeRefresh, sessionID, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, AccessClaims: accessClaims, RefreshClaims: refreshClaims}, nil
}

func generate(userID uuid.UUID, username string, isStaff bool, tokenType, sessionID string, ttlHours int) (string, *JWTClaims, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    userID.String(),
		Username:  username,
		IsStaff:   isStaff,
		TokenType: tokenType,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	return validateToken(tokenString, TokenTypeAccess)
}

func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return validateToken(tokenString, TokenTypeRefresh)
}

func validateToken(tokenString, tokenType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParsedUserID returns the user id encoded in the claims.
func (c *JWTClaims) ParsedUserID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
