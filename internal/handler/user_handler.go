package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "apikit/internal/errors"
	"apikit/internal/middleware"
	"apikit/internal/model"
	"apikit/internal/repository"
	"apikit/internal/response"
	"apikit/internal/service"
)

// UserHandler bundles user management endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents an admin user-creation request.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Role      string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// UpdateUserRequest represents a partial user update. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
	Role      *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Active    *bool   `json:"active"`
}

// UpdateProfileRequest represents a self-service profile update.
type UpdateProfileRequest struct {
	Password  *string `json:"password"`
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
}

// List godoc
// @Summary List users with filtering and pagination
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size"
// @Param email query string false "Exact email match"
// @Param active query bool false "Active flag"
// @Param first_name_contains query string false "First name substring"
// @Param last_name_contains query string false "Last name substring"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return response.Error(c, err)
	}
	active, err := boolQueryParam(c, "active")
	if err != nil {
		return response.Error(c, err)
	}

	filters := map[string]interface{}{}
	if email := c.QueryParam("email"); email != "" {
		filters["email"] = email
	}
	if active != nil {
		filters["active"] = *active
	}
	if v := c.QueryParam("first_name_contains"); v != "" {
		filters["first_name_contains"] = v
	}
	if v := c.QueryParam("last_name_contains"); v != "" {
		filters["last_name_contains"] = v
	}

	users, total, err := h.svc.List(c.Request().Context(), repository.ListParams{
		Filters: filters,
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "", response.Page{Items: users, Total: total, Skip: skip, Limit: limit})
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return response.Error(c, err)
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "", user)
}

// Create godoc
// @Summary Create a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, apperrors.Validation(err.Error()))
	}

	user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.Role(req.Role),
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, "user created successfully", user)
}

// Update godoc
// @Summary Update a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, apperrors.Validation(err.Error()))
	}

	var role *model.Role
	if req.Role != nil {
		r := model.Role(*req.Role)
		role = &r
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		Active:    req.Active,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "user updated successfully", user)
}

// Delete godoc
// @Summary Deactivate a user (admin)
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "deactivated"
// @Failure 404 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return response.Error(c, err)
	}
	if _, err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Error(c, apperrors.Unauthorized())
	}
	return response.OK(c, "", user)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Error(c, apperrors.Unauthorized())
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, apperrors.Validation(err.Error()))
	}

	updated, err := h.svc.Update(c.Request().Context(), user.ID, service.UpdateUserInput{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "profile updated successfully", updated)
}
