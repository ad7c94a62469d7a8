package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/internal/app/service"
	"github.com/meshur/storefront-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  *int `json:"quantity" binding:"omitempty,gte=1,lte=9999"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,lte=9999"`
}

// GetCart GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err, "load cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart POST /api/v1/cart/items
// An omitted quantity adds one unit.
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := ctrl.cartService.AddItem(c.Request.Context(), sessionID, req.ProductID, req.VariantID, quantity)
	if err != nil {
		respondServiceError(c, err, "add item to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
		"quantity":   quantity,
		"cart_count": cart.Count,
	})
	c.JSON(http.StatusOK, cart)
}

// UpdateCartItem PUT /api/v1/cart/items/:variant_id
// A quantity of zero or less removes the line.
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	cart, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), sessionID, variantID, *req.Quantity)
	if err != nil {
		respondServiceError(c, err, "update cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart DELETE /api/v1/cart/items/:variant_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variant_id")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), sessionID, variantID)
	if err != nil {
		respondServiceError(c, err, "remove cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err, "clear cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}
