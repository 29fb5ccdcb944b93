package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calendar window helpers for the reporting engine. All windows are half-open
// [start, end) in the server's local time zone. Weeks start on Sunday, the
// locale day-0 this tracker has always used; week *numbering* in trend buckets
// is ISO (handled at the query layer).

// monthWindow returns the window for a calendar month. Out-of-range months
// are normalized, so monthWindow(2024, 0, loc) is December 2023.
func monthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// yearWindow returns the window for a calendar year.
func yearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(1, 0, 0)
}

// weekWindow returns the Sunday-to-Sunday window containing now, shifted back
// offset whole weeks.
func weekWindow(now time.Time, offset int) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, -int(now.Weekday())-offset*7)
	return start, start.AddDate(0, 0, 7)
}

// weekToDateWindow returns the window from the start of the current week
// through the end of today.
func weekToDateWindow(now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, -int(now.Weekday()))
	return start, day.AddDate(0, 0, 1)
}

// percentChange computes (current-previous)/previous*100 rounded to 2 places,
// and 0 when previous is 0 to avoid division by zero.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// trendLabel classifies a percent change by its sign.
func trendLabel(change decimal.Decimal) string {
	switch change.Sign() {
	case 1:
		return "increase"
	case -1:
		return "decrease"
	default:
		return "stable"
	}
}
