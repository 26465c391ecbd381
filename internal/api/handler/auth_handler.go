package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/metrics"
	"github.com/madezdev/ecommerce-api/internal/api/middleware"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// CookieOptions controls the session cookie written alongside issued tokens.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register creates a guest account with an empty cart.
//
// @Summary      Register a new user
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/sessions/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.Inc()

	h.setCookie(c, res.Token)
	return c.JSON(http.StatusCreated, tokenResponse{
		Status:  "success",
		Message: "user registered successfully",
		Token:   res.Token,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/sessions/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if res.Promoted {
		metrics.RolePromotionsTotal.WithLabelValues("login").Inc()
	}

	h.setCookie(c, res.Token)
	return c.JSON(http.StatusOK, loginResponse{
		Status:             "success",
		Message:            "login successful",
		Token:              res.Token,
		User:               res.User,
		UserIsCompleted:    res.Completeness.PersonalComplete,
		AddressIsCompleted: res.Completeness.AddressComplete,
	})
}

// Current returns the caller's profile and completeness flags.
//
// @Summary      Current user
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/sessions/current [get]
func (h *AuthHandler) Current(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.authService.Current(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	if res.Promoted {
		metrics.RolePromotionsTotal.WithLabelValues("current").Inc()
	}

	return c.JSON(http.StatusOK, profileResponse{
		Status:             "success",
		User:               res.User,
		UserIsCompleted:    res.Completeness.PersonalComplete,
		AddressIsCompleted: res.Completeness.AddressComplete,
	})
}

// CreateAdmin creates another administrator account.
//
// @Summary      Create an admin
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Admin details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/sessions/admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.CreateAdmin(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.Inc()

	return c.JSON(http.StatusCreated, tokenResponse{
		Status:  "success",
		Message: "admin created successfully",
		Token:   res.Token,
	})
}

// Logout revokes the current token and clears the session cookie.
//
// @Summary      Logout
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/sessions/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.Token(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Status: "success", Message: "logged out"})
}

func (h *AuthHandler) setCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
