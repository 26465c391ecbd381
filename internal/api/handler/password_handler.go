package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// PasswordHandler serves the forgot/reset password flow.
type PasswordHandler struct {
	service ports.PasswordResetService
}

func NewPasswordHandler(service ports.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{service: service}
}

// Forgot always answers with the same message so the endpoint cannot be
// used to probe which emails are registered.
//
// @Summary      Request a password reset link
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/sessions/forgot-password [post]
func (h *PasswordHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Request(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{
		Status:  "success",
		Message: "if the email is registered, a reset link has been sent",
	})
}

// Validate checks a reset token before the client shows the reset form.
//
// @Summary      Validate a reset token
// @Tags         sessions
// @Produce      json
// @Param        token  path      string  true  "Reset token"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/sessions/reset-password/{token} [get]
func (h *PasswordHandler) Validate(c echo.Context) error {
	if err := h.service.Validate(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Status: "success", Message: "token is valid"})
}

// Reset sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      400    {object}  errorResponse
// @Router       /api/sessions/reset-password/{token} [post]
func (h *PasswordHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.Reset(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Status: "success", Message: "password updated"})
}
