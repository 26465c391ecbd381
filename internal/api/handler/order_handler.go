package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// OrderHandler serves order history and admin status changes.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Mine lists the caller's orders, newest first.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/orders/user [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMine(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Status: "success", Orders: orders})
}

// Get returns one order. Orders the caller does not own look missing.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order ID"
// @Success      200      {object}  orderResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/orders/{orderId} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Status: "success", Order: order})
}

// List returns every order, optionally filtered by status.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Order status"  Enums(pending, processing, canceled, delivered)
// @Success      200     {object}  orderListResponse
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.List(c.Request().Context(), domain.OrderStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Status: "success", Orders: orders})
}

// UpdateStatus moves an order to a new status.
//
// @Summary      Update an order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string              true  "Order ID"
// @Param        body     body      orderStatusRequest  true  "New status"
// @Success      200      {object}  orderResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/orders/{orderId}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req orderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.service.UpdateStatus(c.Request().Context(), c.Param("orderId"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Status: "success", Order: order})
}
