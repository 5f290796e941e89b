package handler

import (
	"net/http"

	"wiremon/internal/apierror"
	"wiremon/internal/dto"
	"wiremon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// CreateOrder godoc
// @Summary      Create a production order
// @Description  Registers a customer order with its target quantity and wire size. Progress rows are created lazily as stages report against it.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order details"
// @Success      201 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders godoc
// @Summary      List production orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Order status"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	var filter dto.OrderFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary      Get one order with per-stage progress
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid order ID"))
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Change an order's status
// @Description  Manual status transition, e.g. putting an order on hold or cancelling it. Admin only.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.UpdateOrderStatusRequest true "New status"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id}/status [put]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid order ID"))
		return
	}
	var req dto.UpdateOrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StatusReport godoc
// @Summary      Order status report
// @Description  One line per order with completion percentage and remaining quantity, optionally filtered by status.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Order status"
// @Success      200 {object} dto.OrderStatusReport
// @Router       /v1/orders/report [get]
func (h *OrdersHandler) StatusReport(c *gin.Context) {
	resp, err := h.svc.StatusReport(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
