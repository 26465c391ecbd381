package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/metrics"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// CartHandler serves cart reads, mutations and checkout. Ownership and
// profile checks run in middleware before these methods.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Create returns the caller's cart, creating it when missing.
//
// @Summary      Get or create my cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Success      201  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/carts [post]
func (h *CartHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	cart, created, err := h.service.Create(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, cartResponse{Status: "success", Cart: cart})
}

// Get returns a cart.
//
// @Summary      Get a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/carts/{id} [get]
func (h *CartHandler) Get(c echo.Context) error {
	cart, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "success", Cart: cart})
}

// AddProduct adds a product line, or increases its quantity. Quantity
// defaults to 1.
//
// @Summary      Add a product to a cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true   "Cart ID"
// @Param        pid   path      string               true   "Product ID"
// @Param        body  body      cartQuantityRequest  false  "Quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/carts/{id}/products/{pid} [post]
func (h *CartHandler) AddProduct(c echo.Context) error {
	var req cartQuantityRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	cart, err := h.service.AddProduct(c.Request().Context(), c.Param("id"), c.Param("pid"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "success", Cart: cart})
}

// SetQuantity replaces the quantity of a product already in the cart.
//
// @Summary      Set a product quantity
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Cart ID"
// @Param        pid   path      string               true  "Product ID"
// @Param        body  body      cartQuantityRequest  true  "Quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/carts/{id}/products/{pid} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req cartQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.service.SetQuantity(c.Request().Context(), c.Param("id"), c.Param("pid"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "success", Cart: cart})
}

// RemoveProduct drops a product line.
//
// @Summary      Remove a product from a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Param        pid  path      string  true  "Product ID"
// @Success      200  {object}  cartResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/carts/{id}/products/{pid} [delete]
func (h *CartHandler) RemoveProduct(c echo.Context) error {
	cart, err := h.service.RemoveProduct(c.Request().Context(), c.Param("id"), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "success", Cart: cart})
}

// Empty removes every product line.
//
// @Summary      Empty a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Success      200  {object}  cartResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/carts/{id} [delete]
func (h *CartHandler) Empty(c echo.Context) error {
	cart, err := h.service.Empty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Status: "success", Cart: cart})
}

// Purchase turns the cart into an order.
//
// @Summary      Purchase a cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cart ID"
// @Success      201  {object}  purchaseResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/carts/{id}/purchase [post]
func (h *CartHandler) Purchase(c echo.Context) error {
	order, err := h.service.Checkout(c.Request().Context(), c.Param("id"))
	if err != nil {
		metrics.CheckoutFailuresTotal.WithLabelValues(checkoutFailureReason(err)).Inc()
		return err
	}
	metrics.OrdersCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, purchaseResponse{
		Status:  "success",
		Message: "purchase completed",
		Order:   order,
	})
}

func checkoutFailureReason(err error) string {
	var stock *domain.StockError
	switch {
	case errors.As(err, &stock):
		return "stock"
	case errors.Is(err, domain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
