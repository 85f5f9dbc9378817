package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokamart/e-commerce-api/internal/order/domain"
	"github.com/lokamart/e-commerce-api/internal/order/service"
	"github.com/lokamart/e-commerce-api/internal/platform/web"
	userApi "github.com/lokamart/e-commerce-api/internal/user/api"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// RegisterRoutes dipasang di group yang sudah lewat AuthRequired.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListMyOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.PUT("/:id/cancel", h.CancelOrder)
	}
}

func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.AdminListOrders)
		orders.GET("/:id", h.AdminGetOrder)
		orders.PUT("/:id/status", h.AdminUpdateStatus)
		orders.PUT("/:id/cancel", h.AdminCancelOrder)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := userApi.UserID(c)

	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.Created(c, order, "Order created")
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	q := domain.ListOrdersQuery{
		UserID:        userApi.UserID(c),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          web.QueryInt(c, "page", 1),
		Limit:         web.QueryInt(c, "limit", 10),
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), q)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	web.OKList(c, orders, web.NewPagination(q.Page, q.Limit, total))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), userApi.UserID(c))
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OK(c, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"), userApi.UserID(c))
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OKWithMessage(c, order, "Order cancelled")
}

func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	q := domain.ListOrdersQuery{
		UserID:        c.Query("userId"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          web.QueryInt(c, "page", 1),
		Limit:         web.QueryInt(c, "limit", 20),
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), q)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	web.OKList(c, orders, web.NewPagination(q.Page, q.Limit, total))
}

func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), "")
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OK(c, order)
}

// UpdateStatus dibatasi ke order milik caller sendiri (mis. menandai
// pembayaran e-wallet); varian admin di bawah bebas lintas user.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), userApi.UserID(c), req)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OKWithMessage(c, order, "Order status updated")
}

func (h *OrderHandler) AdminUpdateStatus(c *gin.Context) {
	var req domain.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), "", req)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OKWithMessage(c, order, "Order status updated")
}

func (h *OrderHandler) AdminCancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"), "")
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	web.OKWithMessage(c, order, "Order cancelled")
}

func (h *OrderHandler) writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		web.Fail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrEmptyCart):
		web.Fail(c, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductUnavailable):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		web.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotCancellable):
		web.Fail(c, http.StatusBadRequest, err.Error())
	default:
		web.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
