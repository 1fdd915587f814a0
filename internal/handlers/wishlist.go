// internal/handlers/wishlist.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
	pagination      config.PaginationConfig
}

func NewWishlistHandler(wishlistService *services.WishlistService, pagination config.PaginationConfig) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		pagination:      pagination,
	}
}

// GET /api/wishlist
func (h *WishlistHandler) ListItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	params := pageParams(c, h.pagination)

	items, total, err := h.wishlistService.ListItems(userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.NewPage(c, items, total, params))
}

// POST /api/wishlist/add
func (h *WishlistHandler) AddItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.AddToWishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	item, created, err := h.wishlistService.AddItem(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		utils.CreatedResponse(c, item)
		return
	}
	utils.SuccessResponse(c, item)
}

// DELETE /api/wishlist/:id/delete
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := utils.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.wishlistService.RemoveItem(userID, itemID); err != nil {
		respondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
