package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// PeriodSummary is a sum+count pair for a single window.
type PeriodSummary struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// DashboardSummary is the at-a-glance report for the current month and week.
type DashboardSummary struct {
	Monthly           PeriodSummary              `json:"monthly"`
	Weekly            PeriodSummary              `json:"weekly"`
	CategoryBreakdown []repository.CategoryTotal `json:"categoryBreakdown"`
	RecentExpenses    []model.Expense            `json:"recentExpenses"`
}

// TrendsReport is a series of time-bucketed rollups.
type TrendsReport struct {
	Period string                   `json:"period"`
	Trends []repository.PeriodTotal `json:"trends"`
}

// ReportWindow is a concrete date window, end inclusive for presentation.
type ReportWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WeeklyReport covers one Sunday-to-Saturday week.
type WeeklyReport struct {
	Period            ReportWindow               `json:"period"`
	Total             decimal.Decimal            `json:"total"`
	Count             int64                      `json:"count"`
	DailyBreakdown    []repository.PeriodTotal   `json:"dailyBreakdown"`
	CategoryBreakdown []repository.CategoryTotal `json:"categoryBreakdown"`
}

// MonthPeriod identifies the month a report covers.
type MonthPeriod struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Comparison is the month-over-month delta.
type Comparison struct {
	PreviousMonth decimal.Decimal `json:"previousMonth"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Trend         string          `json:"trend"`
}

// MonthlyReport covers one calendar month.
type MonthlyReport struct {
	Period            MonthPeriod                `json:"period"`
	Total             decimal.Decimal            `json:"total"`
	Count             int64                      `json:"count"`
	AvgAmount         decimal.Decimal            `json:"avgAmount"`
	WeeklyBreakdown   []repository.PeriodTotal   `json:"weeklyBreakdown"`
	CategoryBreakdown []repository.CategoryTotal `json:"categoryBreakdown"`
	TopExpenses       []model.Expense            `json:"topExpenses"`
	Comparison        Comparison                 `json:"comparison"`
}

// YearlyReport covers one calendar year.
type YearlyReport struct {
	Year              int                        `json:"year"`
	Total             decimal.Decimal            `json:"total"`
	Count             int64                      `json:"count"`
	AvgAmount         decimal.Decimal            `json:"avgAmount"`
	MonthlyBreakdown  []repository.PeriodTotal   `json:"monthlyBreakdown"`
	CategoryBreakdown []repository.CategoryTotal `json:"categoryBreakdown"`
}

// ReportService computes date-bucketed aggregates scoped to one user.
type ReportService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error)
	Trends(ctx context.Context, userID uuid.UUID, period string, months int) (*TrendsReport, error)
	Weekly(ctx context.Context, userID uuid.UUID, weekOffset int) (*WeeklyReport, error)
	Monthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyReport, error)
	Yearly(ctx context.Context, userID uuid.UUID, year int) (*YearlyReport, error)
}

type reportService struct {
	expenses repository.ExpenseRepository
	now      func() time.Time
}

// NewReportService creates a new reporting service.
func NewReportService(expenses repository.ExpenseRepository) ReportService {
	return &reportService{expenses: expenses, now: time.Now}
}

// Dashboard summarizes the current calendar month and the current week to
// date, with a month category breakdown and the 5 most recent expenses.
func (s *reportService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	now := s.now()
	monthStart, monthEnd := monthWindow(now.Year(), now.Month(), now.Location())
	weekStart, weekEnd := weekToDateWindow(now)

	monthly, err := s.expenses.Totals(ctx, userID, &monthStart, &monthEnd)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	weekly, err := s.expenses.Totals(ctx, userID, &weekStart, &weekEnd)
	if err != nil {
		return nil, fmt.Errorf("weekly totals: %w", err)
	}
	breakdown, err := s.expenses.CategoryTotals(ctx, userID, &monthStart, &monthEnd)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	recent, err := s.expenses.Recent(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}

	return &DashboardSummary{
		Monthly:           PeriodSummary{Total: monthly.Total, Count: monthly.Count},
		Weekly:            PeriodSummary{Total: weekly.Total, Count: weekly.Count},
		CategoryBreakdown: roundCategoryAvgs(breakdown),
		RecentExpenses:    recent,
	}, nil
}

// Trends buckets expenses over a lookback window. period "year" looks back one
// calendar year by month; "week" looks back `months` weeks by ISO week; the
// default "month" looks back `months` calendar months by month.
func (s *reportService) Trends(ctx context.Context, userID uuid.UUID, period string, months int) (*TrendsReport, error) {
	now := s.now()
	if months <= 0 {
		months = 6
	}

	var (
		buckets []repository.PeriodTotal
		err     error
	)
	switch period {
	case "year":
		start := time.Date(now.Year()-1, now.Month(), 1, 0, 0, 0, 0, now.Location())
		buckets, err = s.expenses.MonthlyTotals(ctx, userID, start, now)
	case "week":
		start := now.Add(-time.Duration(months) * 7 * 24 * time.Hour)
		buckets, err = s.expenses.WeeklyTotals(ctx, userID, start, now)
	default:
		period = "month"
		start := time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, now.Location())
		buckets, err = s.expenses.MonthlyTotals(ctx, userID, start, now)
	}
	if err != nil {
		return nil, fmt.Errorf("trend buckets: %w", err)
	}

	return &TrendsReport{Period: period, Trends: roundPeriodAvgs(buckets)}, nil
}

// Weekly reports the Sunday-to-Saturday week `weekOffset` weeks back.
func (s *reportService) Weekly(ctx context.Context, userID uuid.UUID, weekOffset int) (*WeeklyReport, error) {
	start, end := weekWindow(s.now(), weekOffset)

	totals, err := s.expenses.Totals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("week totals: %w", err)
	}
	daily, err := s.expenses.DailyTotals(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}
	breakdown, err := s.expenses.CategoryTotals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}

	return &WeeklyReport{
		Period:            ReportWindow{Start: start, End: end.Add(-time.Millisecond)},
		Total:             totals.Total,
		Count:             totals.Count,
		DailyBreakdown:    roundPeriodAvgs(daily),
		CategoryBreakdown: roundCategoryAvgs(breakdown),
	}, nil
}

// Monthly reports one calendar month with a month-over-month comparison.
// Zero year/month default to the current month; month=1 rolls the comparison
// back into the previous year.
func (s *reportService) Monthly(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyReport, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}

	start, end := monthWindow(year, time.Month(month), now.Location())
	prevStart, prevEnd := monthWindow(year, time.Month(month-1), now.Location())

	totals, err := s.expenses.Totals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("month totals: %w", err)
	}
	weekly, err := s.expenses.WeeklyTotals(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("weekly breakdown: %w", err)
	}
	breakdown, err := s.expenses.CategoryTotals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	top, err := s.expenses.TopByAmount(ctx, userID, start, end, 10)
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	prev, err := s.expenses.Totals(ctx, userID, &prevStart, &prevEnd)
	if err != nil {
		return nil, fmt.Errorf("previous month totals: %w", err)
	}

	change := percentChange(totals.Total, prev.Total)

	return &MonthlyReport{
		Period: MonthPeriod{
			Year:  year,
			Month: month,
			Start: start,
			End:   end.Add(-time.Millisecond),
		},
		Total:             totals.Total,
		Count:             totals.Count,
		AvgAmount:         totals.AvgAmount.Round(2),
		WeeklyBreakdown:   roundPeriodAvgs(weekly),
		CategoryBreakdown: roundCategoryAvgs(breakdown),
		TopExpenses:       top,
		Comparison: Comparison{
			PreviousMonth: prev.Total,
			ChangePercent: change,
			Trend:         trendLabel(change),
		},
	}, nil
}

// Yearly reports one calendar year. Zero year defaults to the current year.
func (s *reportService) Yearly(ctx context.Context, userID uuid.UUID, year int) (*YearlyReport, error) {
	now := s.now()
	if year == 0 {
		year = now.Year()
	}
	start, end := yearWindow(year, now.Location())

	totals, err := s.expenses.Totals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("year totals: %w", err)
	}
	monthly, err := s.expenses.MonthlyTotals(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown: %w", err)
	}
	breakdown, err := s.expenses.CategoryTotals(ctx, userID, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}

	return &YearlyReport{
		Year:              year,
		Total:             totals.Total,
		Count:             totals.Count,
		AvgAmount:         totals.AvgAmount.Round(2),
		MonthlyBreakdown:  roundPeriodAvgs(monthly),
		CategoryBreakdown: roundCategoryAvgs(breakdown),
	}, nil
}

func roundPeriodAvgs(rows []repository.PeriodTotal) []repository.PeriodTotal {
	for i := range rows {
		rows[i].AvgAmount = rows[i].AvgAmount.Round(2)
	}
	return rows
}
