// internal/handlers/admin.go
package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/i18n"
	"github.com/javajoker/storefront-api/internal/models"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the staff-only JSON API.
type AdminHandler struct {
	adminService    *services.AdminService
	categoryService *services.CategoryService
	productService  *services.ProductService
	orderService    *services.OrderService
	storageService  *services.StorageService
	exportService   *services.ExportService
	pagination      config.PaginationConfig
}

func NewAdminHandler(
	adminService *services.AdminService,
	categoryService *services.CategoryService,
	productService *services.ProductService,
	orderService *services.OrderService,
	storageService *services.StorageService,
	exportService *services.ExportService,
	pagination config.PaginationConfig,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		categoryService: categoryService,
		productService:  productService,
		orderService:    orderService,
		storageService:  storageService,
		exportService:   exportService,
		pagination:      pagination,
	}
}

// GET /api/admin/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /api/admin/users?search=&is_active=&is_staff=
func (h *AdminHandler) GetUsers(c *gin.Context) {
	params := pageParams(c, h.pagination)

	filter := services.AdminUserFilter{
		PaginationParams: params,
		Search:           c.Query("search"),
		IsActive:         queryBool(c, "is_active"),
		IsStaff:          queryBool(c, "is_staff"),
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, users, total, params))
}

// PUT /api/admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUserStatus(userID, &req, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GET /api/admin/orders?status=&user_id=
func (h *AdminHandler) GetOrders(c *gin.Context) {
	params := pageParams(c, h.pagination)
	filter := services.AdminOrderFilter{PaginationParams: params}

	if status := c.Query("status"); status != "" {
		orderStatus := models.OrderStatus(status)
		filter.Status = &orderStatus
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := uuid.Parse(userIDStr); err == nil {
			filter.UserID = &userID
		}
	}

	orders, total, err := h.adminService.GetOrders(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, orders, total, params))
}

// PUT /api/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateStatus(orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}

// PUT /api/admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /api/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /api/admin/products/export
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	// Buffer the workbook so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.exportService.WriteProducts(&buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// POST /api/admin/uploads/images (multipart: image, folder)
func (h *AdminHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}
	defer file.Close()

	options := h.storageService.ImageUploadOptions(c.PostForm("folder"))
	result, err := h.storageService.UploadFile(file, fileHeader, options)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func queryBool(c *gin.Context, key string) *bool {
	value, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &value
}
