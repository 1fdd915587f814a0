// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/storefront-api/internal/i18n"
)

// Context keys set by the auth middleware.
const (
	ContextUserID  = "user_id"
	ContextIsStaff = "is_staff"
	ContextClaims  = "claims"
	ContextLang    = "lang"
)

type APIError struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

type APIDetail struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func MessageOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIError{Error: message})
}

func BadRequestResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, message)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	c.JSON(http.StatusBadRequest, APIError{
		Error:   i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input"),
		Details: errs,
	})
}

// BindErrorResponse reports a binding failure, listing field errors when
// the failure came from struct validation.
func BindErrorResponse(c *gin.Context, err error) {
	if errs := GetValidationErrors(err); len(errs) > 0 {
		ValidationErrorResponse(c, errs)
		return
	}
	BadRequestResponse(c, "")
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, APIDetail{Detail: message})
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAdminAccessDenied)
	}
	c.AbortWithStatusJSON(http.StatusForbidden, APIDetail{Detail: message})
}

func NotFoundResponse(c *gin.Context) {
	c.JSON(http.StatusNotFound, APIDetail{Detail: i18n.T(GetLangFromContext(c), i18n.KeyNotFound)})
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInternalError)
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}

func PaginatedResponse(c *gin.Context, page Page) {
	SetPaginationHeaders(c, page)
	c.JSON(http.StatusOK, page)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(ContextLang); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	if userID, exists := c.Get(ContextUserID); exists {
		if id, ok := userID.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func IsStaffFromContext(c *gin.Context) bool {
	if staff, exists := c.Get(ContextIsStaff); exists {
		isStaff, _ := staff.(bool)
		return isStaff
	}
	return false
}

// ParseIDParam parses a UUID path parameter, answering 404 when it is
// malformed so that callers cannot probe id formats.
func ParseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		NotFoundResponse(c)
		return uuid.Nil, false
	}
	return id, true
}
