package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/response"
	"spendwise/internal/service"
)

// CategoryHandler handles user category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents a category creation request.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon" validate:"omitempty,max=50"`
}

// UpdateCategoryRequest represents a category update request.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
}

// List godoc
// @Summary List the caller's categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	categories, err := h.categoryService.List(c.Request().Context(), user.ID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"categories": categories})
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}

	category, err := h.categoryService.Create(c.Request().Context(), user.ID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusCreated, "category created successfully", echo.Map{"category": category})
}

// Update godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body UpdateCategoryRequest true "Category changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrCategoryNotFound)
	}

	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}

	category, err := h.categoryService.Update(c.Request().Context(), user.ID, id, service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "category updated successfully", echo.Map{"category": category})
}

// Delete godoc
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrCategoryNotFound)
	}

	if err := h.categoryService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "category deleted successfully", nil)
}

// Stats godoc
// @Summary Per-category usage statistics
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /categories/stats [get]
func (h *CategoryHandler) Stats(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	stats, err := h.categoryService.Stats(c.Request().Context(), user.ID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"stats": stats})
}
