// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyNotFound      = "common.not_found"
	KeyInternalError = "common.internal_error"
	KeyRateLimited   = "common.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidHeader      = "auth.invalid_header"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserInactive       = "auth.user_inactive"
	KeyAuthUsernameTaken      = "auth.username_taken"
	KeyAuthPasswordMismatch   = "auth.password_mismatch"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Catalog
	KeyProductNotFound    = "product.not_found"
	KeyProductUnavailable = "product.unavailable"
	KeyProductStockLimit  = "product.stock_limit"
	KeyCategoryNotFound   = "category.not_found"
	KeyCategoryInUse      = "category.in_use"

	// Cart
	KeyCartCleared = "cart.cleared"
	KeyCartEmpty   = "cart.empty"

	// Orders
	KeyOrderShippingRequired  = "order.shipping_required"
	KeyOrderInsufficientStock = "order.insufficient_stock"
	KeyOrderNotPending        = "order.not_pending"
	KeyOrderInvalidStatus     = "order.invalid_status"

	// Payments
	KeyPaymentUnavailable = "payment.unavailable"
	KeyPaymentMismatch    = "payment.mismatch"
	KeyPaymentIncomplete  = "payment.incomplete"
	KeyPaymentFailed      = "payment.failed"

	// Admin
	KeyAdminAccessDenied     = "admin.access_denied"
	KeyAdminCannotModifyUser = "admin.cannot_modify_user"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileRequired     = "file.required"
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"
)
