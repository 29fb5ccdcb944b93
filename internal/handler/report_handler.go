package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"spendwise/internal/response"
	"spendwise/internal/service"
)

// ReportHandler handles spending report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard godoc
// @Summary Dashboard summary for the current user
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	summary, err := h.reportService.Dashboard(c.Request().Context(), user.ID)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", summary)
}

// Trends godoc
// @Summary Spending trends bucketed by period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period query string false "week|month|year" default(month)
// @Param months query int false "Months of history" default(6)
// @Success 200 {object} response.Envelope
// @Router /reports/trends [get]
func (h *ReportHandler) Trends(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	period := c.QueryParam("period")
	switch period {
	case "", "week", "month", "year":
	default:
		return response.Error(c, http.StatusBadRequest, "validation failed",
			response.FieldError{Field: "period", Message: "period must be one of week, month, year"})
	}

	months, fieldErr := queryInt(c, "months", 6, 1, 24)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	report, err := h.reportService.Trends(c.Request().Context(), user.ID, period, months)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", report)
}

// Weekly godoc
// @Summary Weekly spending report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param weekOffset query int false "Weeks back from the current week" default(0)
// @Success 200 {object} response.Envelope
// @Router /reports/weekly [get]
func (h *ReportHandler) Weekly(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	weekOffset, fieldErr := queryInt(c, "weekOffset", 0, 0, 52)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	report, err := h.reportService.Weekly(c.Request().Context(), user.ID, weekOffset)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", report)
}

// Monthly godoc
// @Summary Monthly spending report with previous-month comparison
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	now := time.Now()
	year, fieldErr := queryInt(c, "year", now.Year(), 2000, 2100)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}
	month, fieldErr := queryInt(c, "month", int(now.Month()), 1, 12)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	report, err := h.reportService.Monthly(c.Request().Context(), user.ID, year, month)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", report)
}

// Yearly godoc
// @Summary Yearly spending report with monthly breakdown
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} response.Envelope
// @Router /reports/yearly [get]
func (h *ReportHandler) Yearly(c echo.Context) error {
	user, ok := requireUser(c)
	if !ok {
		return response.Error(c, http.StatusUnauthorized, "authentication required")
	}

	year, fieldErr := queryInt(c, "year", time.Now().Year(), 2000, 2100)
	if fieldErr != nil {
		return response.Error(c, http.StatusBadRequest, "validation failed", *fieldErr)
	}

	report, err := h.reportService.Yearly(c.Request().Context(), user.ID, year)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.Success(c, http.StatusOK, "", report)
}
