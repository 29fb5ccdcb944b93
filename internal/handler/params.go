package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"spendwise/internal/middleware"
	"spendwise/internal/model"
	"spendwise/internal/response"
)

// requireUser returns the authenticated user; the auth middleware guarantees
// presence on protected routes, so a miss is a wiring bug.
func requireUser(c echo.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	return user, ok
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC3339 timestamps or bare calendar dates.
func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseDateRange reads optional startDate/endDate query params. The end date
// is inclusive for callers, so it is extended to the start of the next day
// and used as an exclusive bound.
func parseDateRange(c echo.Context) (from, to *time.Time, fieldErr *response.FieldError) {
	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, nil, &response.FieldError{Field: "startDate", Message: "invalid start date format"}
		}
		from = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return nil, nil, &response.FieldError{Field: "endDate", Message: "invalid end date format"}
		}
		end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}

// queryInt reads an optional bounded integer query param.
func queryInt(c echo.Context, name string, def, min, max int) (int, *response.FieldError) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, &response.FieldError{
			Field:   name,
			Message: name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max),
		}
	}
	return v, nil
}
