package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/middleware"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// ProductHandler serves the public catalog and admin product management.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns a page of products. Inactive products are only included
// for admins that ask for them.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category         query     string  false  "Category"
// @Param        subCategory      query     string  false  "Sub-category"
// @Param        offer            query     bool    false  "Only products on offer"
// @Param        page             query     int     false  "Page number"   default(1)
// @Param        limit            query     int     false  "Page size"     default(20)  maximum(100)
// @Param        includeInactive  query     bool    false  "Admins only"
// @Success      200              {object}  productListResponse
// @Failure      400              {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var (
		category, subCategory string
		offer, inactive       bool
		page, limit           int
	)
	if err := echo.QueryParamsBinder(c).
		String("category", &category).
		String("subCategory", &subCategory).
		Bool("offer", &offer).
		Bool("includeInactive", &inactive).
		Int("page", &page).
		Int("limit", &limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	filter := domain.ProductFilter{
		Category:        domain.Category(category),
		SubCategory:     subCategory,
		OnlyOffers:      offer,
		IncludeInactive: inactive && middleware.PrincipalFrom(c).IsAdmin(),
		Page:            page,
		Limit:           limit,
	}
	products, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	page, limit = normalizedPage(page, limit)
	return c.JSON(http.StatusOK, productListResponse{
		Status:     "success",
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	})
}

// Get returns one product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Status: "success", Product: product})
}

// Create adds a product to the catalog.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(c.Request().Context(), toProduct(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Status: "success", Product: product})
}

// Update replaces a product.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product ID"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(c.Request().Context(), c.Param("id"), toProduct(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Status: "success", Product: product})
}

// Delete removes a product.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Status: "success", Message: "product deleted"})
}

func toProduct(req productRequest) *domain.Product {
	iva := float64(domain.DefaultIVA)
	if req.Price.IVA != nil {
		iva = *req.Price.IVA
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &domain.Product{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		Price:       domain.Price{Price: req.Price.Price, IVA: iva, IsOffer: req.Price.IsOffer},
		Category:    domain.Category(req.Category),
		SubCategory: req.SubCategory,
		Images:      req.Images,
		Model:       req.Model,
		Origin:      req.Origin,
		Stock:       req.Stock,
		Tags:        req.Tags,
		Warranty:    req.Warranty,
		Active:      active,
		Outstanding: req.Outstanding,
	}
}

// normalizedPage mirrors the paging defaults applied by the product service.
func normalizedPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
