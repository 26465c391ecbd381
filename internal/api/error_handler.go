package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Status               string                      `json:"status"`
	Message              string                      `json:"message"`
	Code                 string                      `json:"code,omitempty"`
	ProductsNotAvailable []domain.UnavailableProduct `json:"productsNotAvailable,omitempty"`
	Error                string                      `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"status": "error", "message": ...} for every failure.
//
// With debug set, 500 responses also carry the underlying error text.
func NewHTTPErrorHandler(log zerolog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			if debug {
				body.Error = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, errorResponse) {
	body := errorResponse{Status: "error"}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		body.Message = fmt.Sprintf("%v", he.Message)
		return he.Code, body
	}

	var stock *domain.StockError
	if errors.As(err, &stock) {
		body.Message = "some products are not available"
		body.ProductsNotAvailable = stock.Products
		return http.StatusBadRequest, body
	}

	code := statusFor(err)
	if code == http.StatusInternalServerError {
		body.Message = "internal server error"
		return code, body
	}

	body.Message = err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		body.Message = de.Msg
		body.Code = de.Code
	}
	return code, body
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrIncompleteProfile):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
