package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	loc := time.UTC

	start, end := monthWindow(2024, time.February, loc)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), end)

	// Month zero normalizes to December of the previous year.
	start, end = monthWindow(2024, 0, loc)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), end)

	// December rolls over into January.
	start, end = monthWindow(2023, time.December, loc)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), end)
}

func TestYearWindow(t *testing.T) {
	start, end := yearWindow(2024, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekWindow(t *testing.T) {
	// 2024-06-12 is a Wednesday; the containing week starts Sunday 06-09.
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)

	start, end := weekWindow(now, 0)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, time.Sunday, start.Weekday())

	// One week back.
	start, end = weekWindow(now, 1)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekWindowOnSunday(t *testing.T) {
	// A Sunday is day zero of its own week.
	now := time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC)
	start, end := weekWindow(now, 0)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekToDateWindow(t *testing.T) {
	now := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)
	start, end := weekToDateWindow(now)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), start)
	// End is the start of tomorrow, so today is fully included.
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), end)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"increase", "150", "100", "50"},
		{"decrease", "75", "100", "-25"},
		{"unchanged", "100", "100", "0"},
		{"zero previous guards division", "500", "0", "0"},
		{"rounded to two places", "100", "300", "-66.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := decimal.RequireFromString(tt.current)
			previous := decimal.RequireFromString(tt.previous)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, percentChange(current, previous).Equal(want))
		})
	}
}

func TestTrendLabel(t *testing.T) {
	assert.Equal(t, "increase", trendLabel(decimal.NewFromInt(12)))
	assert.Equal(t, "decrease", trendLabel(decimal.NewFromInt(-3)))
	assert.Equal(t, "stable", trendLabel(decimal.Zero))
}
