package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/api/metrics"
	"github.com/madezdev/ecommerce-api/internal/core/domain"
	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// UserHandler serves account administration and profile updates.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Status: "success", Users: users})
}

// Get returns one account with its completeness flags.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  profileResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	res, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		Status:             "success",
		User:               res.User,
		UserIsCompleted:    res.Completeness.PersonalComplete,
		AddressIsCompleted: res.Completeness.AddressComplete,
	})
}

// Update edits personal and address fields, then re-runs the promotion check.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Update(c.Request().Context(), c.Param("id"), toUserUpdate(req))
	if err != nil {
		return err
	}
	if res.Promoted {
		metrics.RolePromotionsTotal.WithLabelValues("update").Inc()
	}

	return c.JSON(http.StatusOK, profileResponse{
		Status:             "success",
		User:               res.User,
		UserIsCompleted:    res.Completeness.PersonalComplete,
		AddressIsCompleted: res.Completeness.AddressComplete,
	})
}

// Delete removes an account and its cart.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Status: "success", Message: "user deleted"})
}

// toUserUpdate maps the request onto a partial update; blank values are
// dropped so they never overwrite stored data.
func toUserUpdate(req updateUserRequest) domain.UserUpdate {
	upd := domain.UserUpdate{
		FirstName:      nonBlank(req.FirstName),
		LastName:       nonBlank(req.LastName),
		IDNumber:       nonBlank(req.IDNumber),
		BirthDate:      nonBlank(req.BirthDate),
		ActivityType:   nonBlank(req.ActivityType),
		ActivityNumber: nonBlank(req.ActivityNumber),
		Phone:          nonBlank(req.Phone),
	}
	if a := req.Address; a != nil {
		upd.Address = domain.AddressUpdate{
			Street:  nonBlank(a.Street),
			City:    nonBlank(a.City),
			State:   nonBlank(a.State),
			ZipCode: nonBlank(a.ZipCode),
			Country: nonBlank(a.Country),
		}
	}
	return upd
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
