// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

// CatalogHandler serves the public category, product and review reads.
type CatalogHandler struct {
	categoryService *services.CategoryService
	productService  *services.ProductService
	reviewService   *services.ReviewService
	pagination      config.PaginationConfig
}

func NewCatalogHandler(
	categoryService *services.CategoryService,
	productService *services.ProductService,
	reviewService *services.ReviewService,
	pagination config.PaginationConfig,
) *CatalogHandler {
	return &CatalogHandler{
		categoryService: categoryService,
		productService:  productService,
		reviewService:   reviewService,
		pagination:      pagination,
	}
}

// GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	params := pageParams(c, h.pagination)

	categories, total, err := h.categoryService.ListCategories(params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, categories, total, params))
}

// GET /api/categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// GET /api/products?category=&search=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := pageParams(c, h.pagination)

	filter := services.ProductFilter{
		Category:         c.Query("category"),
		Search:           c.Query("search"),
		PaginationParams: params,
	}

	products, total, err := h.productService.ListProducts(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, products, total, params))
}

// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /api/products/:id/reviews
func (h *CatalogHandler) ListProductReviews(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}
	params := pageParams(c, h.pagination)

	reviews, total, err := h.reviewService.ListProductReviews(id, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, reviews, total, params))
}
