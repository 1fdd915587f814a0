// internal/handlers/errors.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/i18n"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

// badRequestKeys maps business-rule failures to their message.
var badRequestKeys = map[error]string{
	services.ErrInvalidCredentials:     i18n.KeyAuthInvalidCredentials,
	services.ErrUsernameTaken:          i18n.KeyAuthUsernameTaken,
	services.ErrPasswordMismatch:       i18n.KeyAuthPasswordMismatch,
	services.ErrProductNotFound:        i18n.KeyProductNotFound,
	services.ErrProductUnavailable:     i18n.KeyProductUnavailable,
	services.ErrCategoryNotFound:       i18n.KeyCategoryNotFound,
	services.ErrCategoryInUse:          i18n.KeyCategoryInUse,
	services.ErrCartEmpty:              i18n.KeyCartEmpty,
	services.ErrMissingShippingAddress: i18n.KeyOrderShippingRequired,
	services.ErrOrderNotPending:        i18n.KeyOrderNotPending,
	services.ErrInvalidOrderStatus:     i18n.KeyOrderInvalidStatus,
	services.ErrPaymentMismatch:        i18n.KeyPaymentMismatch,
	services.ErrPaymentIncomplete:      i18n.KeyPaymentIncomplete,
	services.ErrCannotModifyUser:       i18n.KeyAdminCannotModifyUser,
	services.ErrFileTooLarge:           i18n.KeyFileTooLarge,
	services.ErrFileInvalidType:        i18n.KeyFileInvalidType,
}

// respondError writes the response for an error returned by a service.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var stockErr *services.StockExceededError
	var insufficientErr *services.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		if details := utils.GetValidationErrors(validationErr.Err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.BadRequestResponse(c, validationErr.Err.Error())
	case errors.As(err, &stockErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductStockLimit, stockErr.Available))
	case errors.As(err, &insufficientErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInsufficientStock,
			insufficientErr.ProductName, insufficientErr.Available))
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c)
	case errors.Is(err, services.ErrPaymentsDisabled):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyPaymentUnavailable))
	case errors.Is(err, services.ErrPaymentGateway):
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Payment provider error")
		utils.ErrorResponse(c, http.StatusBadGateway, i18n.T(lang, i18n.KeyPaymentFailed))
	default:
		for target, key := range badRequestKeys {
			if errors.Is(err, target) {
				utils.BadRequestResponse(c, i18n.T(lang, key))
				return
			}
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON decodes the request body into req, answering 400 on failure.
// Field rules are checked by the services.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BindErrorResponse(c, err)
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted,
// including chunked requests whose length is not known up front.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		utils.BindErrorResponse(c, err)
		return false
	}
	return true
}

// currentUser returns the authenticated user's id. Routes using it sit
// behind AuthRequired, so a miss is answered with 401.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return id, ok
}

func pageParams(c *gin.Context, cfg config.PaginationConfig) utils.PaginationParams {
	return utils.GetPaginationParams(c, cfg.DefaultPageSize, cfg.MaxPageSize)
}
