package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/response"
	"spendwise/internal/service"
)

// AdminHandler handles the admin-only surface. All routes behind it are
// already gated by the admin middleware.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AdminCreateUserRequest represents an admin user-creation request.
type AdminCreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateRoleRequest represents a role change request.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// Stats godoc
// @Summary System-wide statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", stats)
}

// ListUsers godoc
// @Summary List all users with spending counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"users": users})
}

// CreateUser godoc
// @Summary Create a user with an explicit role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AdminCreateUserRequest true "User data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req AdminCreateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}

	user, err := h.adminService.CreateUser(c.Request().Context(), service.AdminCreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusCreated, "user created successfully", echo.Map{"user": user})
}

// GetUser godoc
// @Summary Get a user with recent activity
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrUserNotFound)
	}

	user, err := h.adminService.GetUser(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"user": user})
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	actor, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrUserNotFound)
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}

	user, err := h.adminService.UpdateRole(c.Request().Context(), actor.ID, id, req.Role)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "user role updated successfully", echo.Map{"user": user})
}

// DeleteUser godoc
// @Summary Delete a user and all their data
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrUserNotFound)
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "user deleted successfully", nil)
}

// ListExpenses godoc
// @Summary Recent expenses across all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/expenses [get]
func (h *AdminHandler) ListExpenses(c echo.Context) error {
	expenses, err := h.adminService.ListExpenses(c.Request().Context())
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", expenses)
}
