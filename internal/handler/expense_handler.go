package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/repository"
	"spendwise/internal/response"
	"spendwise/internal/service"
)

// ExpenseHandler handles expense CRUD and rollup endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents an expense creation request.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required,max=500"`
	Category    string          `json:"category" validate:"required,oneof=grocery entertainment shopping gas bills healthcare dining transportation utilities other"`
	Date        string          `json:"date" validate:"omitempty"`
}

// UpdateExpenseRequest represents an expense update request.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Category    *string          `json:"category" validate:"omitempty,oneof=grocery entertainment shopping gas bills healthcare dining transportation utilities other"`
	Date        *string          `json:"date"`
}

// DeleteExpensesRequest represents a bulk delete request.
type DeleteExpensesRequest struct {
	ExpenseIDs []string `json:"expenseIds" validate:"required,min=1,dive,uuid"`
}

// Create godoc
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "Expense data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}
	if !req.Amount.IsPositive() {
		return response.Error(c, http.StatusBadRequest, "validation failed",
			response.FieldError{Field: "amount", Message: "amount must be a positive number"})
	}

	var date *time.Time
	if req.Date != "" {
		t, err := parseDate(req.Date)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "validation failed",
				response.FieldError{Field: "date", Message: "invalid date format"})
		}
		date = &t
	}

	expense, err := h.expenseService.Create(c.Request().Context(), user.ID, service.ExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusCreated, "expense created successfully", echo.Map{"expense": expense})
}

// List godoc
// @Summary List expenses with filters and pagination
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param startDate query string false "Start date (inclusive)"
// @Param endDate query string false "End date (inclusive)"
// @Param minAmount query number false "Minimum amount"
// @Param maxAmount query number false "Maximum amount"
// @Param sortBy query string false "date|amount|category"
// @Param sortOrder query string false "asc|desc"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} response.Envelope
// @Router /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	filter, fieldErr := h.parseFilter(c)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	expenses, total, err := h.expenseService.List(c.Request().Context(), user.ID, filter)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, http.StatusOK, "", echo.Map{
		"expenses":   expenses,
		"pagination": response.NewPagination(filter.Page, filter.Limit, total),
	})
}

func (h *ExpenseHandler) parseFilter(c echo.Context) (repository.ExpenseFilter, *response.FieldError) {
	filter := repository.ExpenseFilter{
		Category:  c.QueryParam("category"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}

	from, to, fieldErr := parseDateRange(c)
	if fieldErr != nil {
		return filter, fieldErr
	}
	filter.StartDate = from
	filter.EndDate = to

	if raw := c.QueryParam("minAmount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			return filter, &response.FieldError{Field: "minAmount", Message: "minimum amount must be a positive number"}
		}
		filter.MinAmount = &v
	}
	if raw := c.QueryParam("maxAmount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || v.IsNegative() {
			return filter, &response.FieldError{Field: "maxAmount", Message: "maximum amount must be a positive number"}
		}
		filter.MaxAmount = &v
	}

	page, fieldErr := queryInt(c, "page", 1, 1, 1<<30)
	if fieldErr != nil {
		return filter, fieldErr
	}
	limit, fieldErr := queryInt(c, "limit", 50, 1, 100)
	if fieldErr != nil {
		return filter, fieldErr
	}
	filter.Page = page
	filter.Limit = limit
	return filter, nil
}

// Get godoc
// @Summary Get a single expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrExpenseNotFound)
	}

	expense, err := h.expenseService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"expense": expense})
}

// Update godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body UpdateExpenseRequest true "Expense changes"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrExpenseNotFound)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return response.Error(c, http.StatusBadRequest, "validation failed",
			response.FieldError{Field: "amount", Message: "amount must be a positive number"})
	}

	update := service.ExpenseUpdate{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "validation failed",
				response.FieldError{Field: "date", Message: "invalid date format"})
		}
		update.Date = &t
	}

	expense, err := h.expenseService.Update(c.Request().Context(), user.ID, id, update)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "expense updated successfully", echo.Map{"expense": expense})
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Fail(c, apperrors.ErrExpenseNotFound)
	}

	if err := h.expenseService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "expense deleted successfully", nil)
}

// DeleteMany godoc
// @Summary Delete multiple expenses
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteExpensesRequest true "Expense IDs"
// @Success 200 {object} response.Envelope
// @Router /expenses/delete-multiple [post]
func (h *ExpenseHandler) DeleteMany(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req DeleteExpensesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationFailed(c, err)
	}

	ids := make([]uuid.UUID, 0, len(req.ExpenseIDs))
	for _, raw := range req.ExpenseIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, http.StatusBadRequest, "validation failed",
				response.FieldError{Field: "expenseIds", Message: "invalid expense id: " + raw})
		}
		ids = append(ids, id)
	}

	deleted, err := h.expenseService.DeleteMany(c.Request().Context(), user.ID, ids)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "expenses deleted successfully", echo.Map{"deletedCount": deleted})
}

// Total godoc
// @Summary Total spending over an optional date range
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (inclusive)"
// @Param endDate query string false "End date (inclusive)"
// @Success 200 {object} response.Envelope
// @Router /expenses/total [get]
func (h *ExpenseHandler) Total(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	from, to, fieldErr := parseDateRange(c)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	totals, err := h.expenseService.Total(c.Request().Context(), user.ID, from, to)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{
		"total": totals.Total,
		"count": totals.Count,
	})
}

// ByCategory godoc
// @Summary Spending grouped by category over an optional date range
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (inclusive)"
// @Param endDate query string false "End date (inclusive)"
// @Success 200 {object} response.Envelope
// @Router /expenses/by-category [get]
func (h *ExpenseHandler) ByCategory(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	from, to, fieldErr := parseDateRange(c)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	categories, err := h.expenseService.ByCategory(c.Request().Context(), user.ID, from, to)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"categories": categories})
}
