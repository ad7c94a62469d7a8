package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/service"
)

type FavoritesController struct {
	favoritesService service.FavoritesService
}

func NewFavoritesController(favoritesService service.FavoritesService) *FavoritesController {
	return &FavoritesController{
		favoritesService: favoritesService,
	}
}

type AddFavoriteRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetFavorites GET /api/v1/favorites
func (ctrl *FavoritesController) GetFavorites(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	products, err := ctrl.favoritesService.GetFavorites(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err, "load favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": products,
		"count":     len(products),
	})
}

// AddFavorite POST /api/v1/favorites
func (ctrl *FavoritesController) AddFavorite(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	products, err := ctrl.favoritesService.AddFavorite(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		respondServiceError(c, err, "add favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": products,
		"count":     len(products),
	})
}

// ToggleFavorite POST /api/v1/favorites/:product_id/toggle
func (ctrl *FavoritesController) ToggleFavorite(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	isFavorite, err := ctrl.favoritesService.ToggleFavorite(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondServiceError(c, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":  productID,
		"is_favorite": isFavorite,
	})
}

// IsFavorite GET /api/v1/favorites/:product_id
func (ctrl *FavoritesController) IsFavorite(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	isFavorite, err := ctrl.favoritesService.IsFavorite(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondServiceError(c, err, "check favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":  productID,
		"is_favorite": isFavorite,
	})
}

// RemoveFavorite DELETE /api/v1/favorites/:product_id
func (ctrl *FavoritesController) RemoveFavorite(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	products, err := ctrl.favoritesService.RemoveFavorite(c.Request.Context(), sessionID, productID)
	if err != nil {
		respondServiceError(c, err, "remove favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": products,
		"count":     len(products),
	})
}

// ClearFavorites DELETE /api/v1/favorites
func (ctrl *FavoritesController) ClearFavorites(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := ctrl.favoritesService.ClearFavorites(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err, "clear favorites")
		return
	}
	c.Status(http.StatusNoContent)
}
