package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/model"
)

// SpendingTotals is a sum/count/avg rollup over a set of expenses.
type SpendingTotals struct {
	Total     decimal.Decimal `json:"total"`
	Count     int64           `json:"count"`
	AvgAmount decimal.Decimal `json:"avgAmount"`
}

// CategoryTotal is a per-category rollup.
type CategoryTotal struct {
	Category  string          `json:"category"`
	Total     decimal.Decimal `json:"total"`
	Count     int64           `json:"count"`
	AvgAmount decimal.Decimal `json:"avgAmount"`
}

// PeriodTotal is a time-bucketed rollup. Month, Week and Day are populated
// depending on the grouping used.
type PeriodTotal struct {
	Year      int             `json:"year"`
	Month     int             `json:"month,omitempty"`
	Week      int             `json:"week,omitempty"`
	Day       int             `json:"day,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Count     int64           `json:"count"`
	AvgAmount decimal.Decimal `json:"avgAmount"`
}

// UserSpending ranks a user by expense activity.
type UserSpending struct {
	UserID       uuid.UUID       `json:"userId"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	ExpenseCount int64           `json:"expenseCount"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

// ExpenseFilter narrows expense listings. Nil/zero fields are ignored.
// EndDate is exclusive; callers extend an inclusive calendar date to the
// start of the following day.
type ExpenseFilter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ExpenseRepository defines expense persistence and aggregation operations.
// All time windows are half-open: [from, to).
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]model.Expense, int64, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error)
	TopByAmount(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]model.Expense, error)

	Totals(ctx context.Context, userID uuid.UUID, from, to *time.Time) (SpendingTotals, error)
	CategoryTotals(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error)
	WeeklyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error)
	DailyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error)
	DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error)

	CountByCategory(ctx context.Context, userID uuid.UUID, category string) (int64, error)
	TotalByCategory(ctx context.Context, userID uuid.UUID, category string) (decimal.Decimal, error)
	RenameCategory(ctx context.Context, userID uuid.UUID, oldName, newName string) error

	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	TotalByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	TotalAll(ctx context.Context) (decimal.Decimal, error)
	ListAllRecent(ctx context.Context, limit int) ([]model.Expense, error)
	TopSpenders(ctx context.Context, limit int) ([]UserSpending, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository builds a GORM-backed repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *expenseRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Delete(&model.Expense{})
	return res.RowsAffected, res.Error
}

func (r *expenseRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Expense{}).Error
}

var sortColumns = map[string]string{
	"date":     "date",
	"amount":   "amount",
	"category": "category",
}

func (r *expenseRepository) List(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]model.Expense, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("user_id = ?", userID)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date < ?", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	var expenses []model.Expense
	if err := q.Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) TopByAmount(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("amount DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) rangeQuery(ctx context.Context, userID uuid.UUID, from, to *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date < ?", *to)
	}
	return q
}

func (r *expenseRepository) Totals(ctx context.Context, userID uuid.UUID, from, to *time.Time) (SpendingTotals, error) {
	var totals SpendingTotals
	err := r.rangeQuery(ctx, userID, from, to).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count, COALESCE(AVG(amount), 0) AS avg_amount").
		Scan(&totals).Error
	return totals, err
}

func (r *expenseRepository) CategoryTotals(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := r.rangeQuery(ctx, userID, from, to).
		Select("category, SUM(amount) AS total, COUNT(*) AS count, AVG(amount) AS avg_amount").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *expenseRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error) {
	var rows []PeriodTotal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("YEAR(date) AS year, MONTH(date) AS month, SUM(amount) AS total, COUNT(*) AS count, AVG(amount) AS avg_amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Group("YEAR(date), MONTH(date)").
		Order("year ASC, month ASC").
		Scan(&rows).Error
	return rows, err
}

// WeeklyTotals buckets by ISO week number (MySQL WEEK mode 3).
func (r *expenseRepository) WeeklyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error) {
	var rows []PeriodTotal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("YEAR(date) AS year, WEEK(date, 3) AS week, SUM(amount) AS total, COUNT(*) AS count, AVG(amount) AS avg_amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Group("YEAR(date), WEEK(date, 3)").
		Order("year ASC, week ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *expenseRepository) DailyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]PeriodTotal, error) {
	var rows []PeriodTotal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("YEAR(date) AS year, MONTH(date) AS month, DAY(date) AS day, SUM(amount) AS total, COUNT(*) AS count, AVG(amount) AS avg_amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Group("YEAR(date), MONTH(date), DAY(date)").
		Order("year ASC, month ASC, day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *expenseRepository) DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ?", userID).
		Distinct("category").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *expenseRepository) CountByCategory(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ? AND category = ?", userID, category).
		Count(&count).Error
	return count, err
}

func (r *expenseRepository) TotalByCategory(ctx context.Context, userID uuid.UUID, category string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ? AND category = ?", userID, category).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// RenameCategory moves every expense of one user from oldName to newName.
// Other users' expenses are untouched.
func (r *expenseRepository) RenameCategory(ctx context.Context, userID uuid.UUID, oldName, newName string) error {
	return r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ? AND category = ?", userID, oldName).
		Update("category", newName).Error
}

func (r *expenseRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *expenseRepository) TotalByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *expenseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Expense{}).Count(&count).Error
	return count, err
}

func (r *expenseRepository) TotalAll(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *expenseRepository) ListAllRecent(ctx context.Context, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("date DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) TopSpenders(ctx context.Context, limit int) ([]UserSpending, error) {
	var rows []UserSpending
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("expenses.user_id AS user_id, users.username AS username, users.email AS email, COUNT(*) AS expense_count, SUM(expenses.amount) AS total_spent").
		Joins("JOIN users ON users.id = expenses.user_id").
		Group("expenses.user_id, users.username, users.email").
		Order("expense_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
