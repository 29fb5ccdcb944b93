package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"spendwise/internal/model"
	"spendwise/internal/repository"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	args := m.Called(ctx, email, username)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindTakenByOther(ctx context.Context, excludeID uuid.UUID, email, username string) (*model.User, error) {
	args := m.Called(ctx, excludeID, email, username)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) FindLive(ctx context.Context, token string, userID uuid.UUID, now time.Time) (*model.Session, error) {
	args := m.Called(ctx, token, userID, now)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Session, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]model.Session)
	return sessions, args.Error(1)
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) CreateBatch(ctx context.Context, categories []model.Category) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id, userID)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.Category, error) {
	args := m.Called(ctx, userID, name)
	category, _ := args.Get(0).(*model.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCategoryRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockExpenseRepo struct{ mock.Mock }

func (m *mockExpenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *mockExpenseRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*model.Expense, error) {
	args := m.Called(ctx, id, userID)
	expense, _ := args.Get(0).(*model.Expense)
	return expense, args.Error(1)
}

func (m *mockExpenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockExpenseRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExpenseRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockExpenseRepo) List(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]model.Expense, int64, error) {
	args := m.Called(ctx, userID, filter)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Get(1).(int64), args.Error(2)
}

func (m *mockExpenseRepo) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]model.Expense, error) {
	args := m.Called(ctx, userID, limit)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Error(1)
}

func (m *mockExpenseRepo) TopByAmount(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]model.Expense, error) {
	args := m.Called(ctx, userID, from, to, limit)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Error(1)
}

func (m *mockExpenseRepo) Totals(ctx context.Context, userID uuid.UUID, from, to *time.Time) (repository.SpendingTotals, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(repository.SpendingTotals), args.Error(1)
}

func (m *mockExpenseRepo) CategoryTotals(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]repository.CategoryTotal, error) {
	args := m.Called(ctx, userID, from, to)
	totals, _ := args.Get(0).([]repository.CategoryTotal)
	return totals, args.Error(1)
}

func (m *mockExpenseRepo) MonthlyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.PeriodTotal, error) {
	args := m.Called(ctx, userID, from, to)
	totals, _ := args.Get(0).([]repository.PeriodTotal)
	return totals, args.Error(1)
}

func (m *mockExpenseRepo) WeeklyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.PeriodTotal, error) {
	args := m.Called(ctx, userID, from, to)
	totals, _ := args.Get(0).([]repository.PeriodTotal)
	return totals, args.Error(1)
}

func (m *mockExpenseRepo) DailyTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.PeriodTotal, error) {
	args := m.Called(ctx, userID, from, to)
	totals, _ := args.Get(0).([]repository.PeriodTotal)
	return totals, args.Error(1)
}

func (m *mockExpenseRepo) DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	categories, _ := args.Get(0).([]string)
	return categories, args.Error(1)
}

func (m *mockExpenseRepo) CountByCategory(ctx context.Context, userID uuid.UUID, category string) (int64, error) {
	args := m.Called(ctx, userID, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExpenseRepo) TotalByCategory(ctx context.Context, userID uuid.UUID, category string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, category)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockExpenseRepo) RenameCategory(ctx context.Context, userID uuid.UUID, oldName, newName string) error {
	return m.Called(ctx, userID, oldName, newName).Error(0)
}

func (m *mockExpenseRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExpenseRepo) TotalByUser(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockExpenseRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExpenseRepo) TotalAll(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockExpenseRepo) ListAllRecent(ctx context.Context, limit int) ([]model.Expense, error) {
	args := m.Called(ctx, limit)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Error(1)
}

func (m *mockExpenseRepo) TopSpenders(ctx context.Context, limit int) ([]repository.UserSpending, error) {
	args := m.Called(ctx, limit)
	spenders, _ := args.Get(0).([]repository.UserSpending)
	return spenders, args.Error(1)
}

type mockSessionCache struct{ mock.Mock }

func (m *mockSessionCache) Get(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *mockSessionCache) Set(ctx context.Context, session *model.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionCache) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
