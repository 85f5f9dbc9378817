package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokamart/e-commerce-api/internal/cart/domain"
	"github.com/lokamart/e-commerce-api/internal/cart/service"
	"github.com/lokamart/e-commerce-api/internal/platform/web"
	userApi "github.com/lokamart/e-commerce-api/internal/user/api"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

// RegisterRoutes dipasang di group yang sudah lewat AuthRequired.
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:productId", h.UpdateItem)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

func (h *CartHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.GET("", h.ListCarts)
		carts.GET("/:userId", h.GetCartForUser)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := userApi.UserID(c)

	lines, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	web.OK(c, lines)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := userApi.UserID(c)

	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	lines, err := h.service.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	web.OKWithMessage(c, lines, "Item added to cart")
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := userApi.UserID(c)
	productID := c.Param("productId")

	var req domain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	lines, err := h.service.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	web.OKWithMessage(c, lines, "Cart item updated")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := userApi.UserID(c)
	productID := c.Param("productId")

	lines, err := h.service.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	web.OKWithMessage(c, lines, "Item removed from cart")
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := userApi.UserID(c)

	if err := h.service.ClearCart(c.Request.Context(), userID); err != nil {
		h.writeCartError(c, err)
		return
	}
	web.OKWithMessage(c, []domain.CartLine{}, "Cart cleared")
}

func (h *CartHandler) ListCarts(c *gin.Context) {
	page := web.QueryInt(c, "page", 1)
	limit := web.QueryInt(c, "limit", 20)

	carts, total, err := h.service.ListCarts(c.Request.Context(), page, limit)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, "Failed to list carts")
		return
	}
	web.OKList(c, carts, web.NewPagination(page, limit, total))
}

func (h *CartHandler) GetCartForUser(c *gin.Context) {
	lines, err := h.service.GetCartForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	web.OK(c, lines)
}

// writeCartError memetakan sentinel error service ke status HTTP.
func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		web.Fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrCartNotFound):
		web.Fail(c, http.StatusNotFound, "Cart not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		web.Fail(c, http.StatusNotFound, "Item not found in cart")
	case errors.Is(err, service.ErrInsufficientStock):
		web.Fail(c, http.StatusBadRequest, err.Error())
	default:
		web.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
