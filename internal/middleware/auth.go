// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-api/internal/i18n"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/utils"
)

// SessionChecker resolves a token to the account behind it. It fails when
// the token or its login session was revoked or the account is gone.
type SessionChecker interface {
	CheckSession(claims *utils.JWTClaims) (*models.User, error)
}

// extractToken accepts both "Bearer <token>" and "Token <token>".
func extractToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1], true
	}
	return "", false
}

func authenticate(c *gin.Context, checker SessionChecker) (*utils.JWTClaims, string) {
	lang := utils.GetLangFromContext(c)

	token, ok := extractToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, i18n.T(lang, i18n.KeyAuthInvalidHeader)
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return nil, i18n.T(lang, i18n.KeyAuthInvalidToken)
	}

	userID, err := claims.ParsedUserID()
	if err != nil {
		return nil, i18n.T(lang, i18n.KeyAuthInvalidToken)
	}

	isStaff := claims.IsStaff
	if checker != nil {
		user, err := checker.CheckSession(claims)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Debug("Token rejected")
			return nil, i18n.T(lang, i18n.KeyAuthInvalidToken)
		}
		if !user.IsActive {
			return nil, i18n.T(lang, i18n.KeyAuthUserInactive)
		}
		isStaff = user.IsStaff
	}

	// Set user info in context
	c.Set(utils.ContextUserID, userID)
	c.Set(utils.ContextIsStaff, isStaff)
	c.Set(utils.ContextClaims, claims)
	c.Set("username", claims.Username)
	return claims, ""
}

func AuthRequired(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			utils.UnauthorizedResponse(c, "")
			return
		}

		if _, msg := authenticate(c, checker); msg != "" {
			utils.UnauthorizedResponse(c, msg)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			authenticate(c, checker)
		}
		c.Next()
	}
}

// StaffRequired must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsStaffFromContext(c) {
			utils.ForbiddenResponse(c, "")
			return
		}
		c.Next()
	}
}
