package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "apikit/internal/errors"
	"apikit/internal/model"
	"apikit/internal/repository"
	"apikit/internal/response"
	"apikit/internal/service"
)

// CountryHandler bundles reference-data endpoints.
type CountryHandler struct {
	svc service.CountryService
}

// NewCountryHandler creates a handler layer.
func NewCountryHandler(svc service.CountryService) *CountryHandler {
	return &CountryHandler{svc: svc}
}

// CreateCountryRequest represents a country creation request.
type CreateCountryRequest struct {
	Code string `json:"code" validate:"required,min=2,max=3,alpha"`
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateCountryRequest represents a partial country update.
type UpdateCountryRequest struct {
	Code   *string `json:"code" validate:"omitempty,min=2,max=3,alpha"`
	Name   *string `json:"name" validate:"omitempty,max=255"`
	Active *bool   `json:"active"`
}

// List godoc
// @Summary List countries with filtering and pagination
// @Tags countries
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size"
// @Param code query string false "Exact code match"
// @Param active query bool false "Active flag"
// @Param name_contains query string false "Name substring"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /countries [get]
func (h *CountryHandler) List(c echo.Context) error {
	skip, limit, err := pageParams(c)
	if err != nil {
		return response.Error(c, err)
	}
	active, err := boolQueryParam(c, "active")
	if err != nil {
		return response.Error(c, err)
	}

	filters := map[string]interface{}{}
	if code := c.QueryParam("code"); code != "" {
		filters["code"] = code
	}
	if active != nil {
		filters["active"] = *active
	}
	if v := c.QueryParam("name_contains"); v != "" {
		filters["name_contains"] = v
	}

	countries, total, err := h.svc.List(c.Request().Context(), repository.ListParams{
		Filters: filters,
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "", response.Page{Items: countries, Total: total, Skip: skip, Limit: limit})
}

// Get godoc
// @Summary Get country by numeric id or by code
// @Tags countries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Country ID or code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /countries/{id} [get]
func (h *CountryHandler) Get(c echo.Context) error {
	param := c.Param("id")

	var country *model.Country
	var err error
	if id, parseErr := strconv.ParseUint(param, 10, 32); parseErr == nil {
		country, err = h.svc.Get(c.Request().Context(), uint(id))
	} else {
		country, err = h.svc.GetByCode(c.Request().Context(), param)
	}
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "", country)
}

// Create godoc
// @Summary Create a country (admin)
// @Tags countries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCountryRequest true "Country payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /countries [post]
func (h *CountryHandler) Create(c echo.Context) error {
	var req CreateCountryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, apperrors.Validation(err.Error()))
	}

	country, err := h.svc.Create(c.Request().Context(), service.CreateCountryInput{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, "country created successfully", country)
}

// Update godoc
// @Summary Update a country (admin)
// @Tags countries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Country ID"
// @Param request body UpdateCountryRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /countries/{id} [put]
func (h *CountryHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req UpdateCountryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, apperrors.Validation(err.Error()))
	}

	country, err := h.svc.Update(c.Request().Context(), id, service.UpdateCountryInput{
		Code:   req.Code,
		Name:   req.Name,
		Active: req.Active,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, "country updated successfully", country)
}

// Delete godoc
// @Summary Delete a country (admin)
// @Tags countries
// @Security BearerAuth
// @Param id path int true "Country ID"
// @Success 204 "deleted"
// @Failure 404 {object} response.Envelope
// @Router /countries/{id} [delete]
func (h *CountryHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return response.Error(c, err)
	}
	if _, err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}
