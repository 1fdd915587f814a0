// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/i18n"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
	pagination  config.PaginationConfig
}

func NewCartHandler(cartService *services.CartService, pagination config.PaginationConfig) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		pagination:  pagination,
	}
}

// GET /api/cart
func (h *CartHandler) ListItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	params := pageParams(c, h.pagination)

	items, total, err := h.cartService.ListItems(userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, items, total, params))
}

// POST /api/cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	req := services.AddToCartRequest{Quantity: 1}
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, item)
}

// PUT|PATCH /api/cart/:id/update
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.UpdateItem(userID, itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, item)
}

// DELETE /api/cart/:id/delete
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(userID, itemID); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// DELETE /api/cart/clear
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(userID); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageOK(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCartCleared))
}
