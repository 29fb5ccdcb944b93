package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// ExpenseInput is the payload for creating an expense.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        *time.Time
}

// ExpenseUpdate carries optional expense field changes; nil means unchanged.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Date        *time.Time
}

// ExpenseService manages user-owned expenses. Ownership is baked into every
// repository filter, so another user's expense behaves as absent.
type ExpenseService interface {
	Create(ctx context.Context, userID uuid.UUID, in ExpenseInput) (*model.Expense, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]model.Expense, int64, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, userID, id uuid.UUID, in ExpenseUpdate) (*model.Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	Total(ctx context.Context, userID uuid.UUID, from, to *time.Time) (repository.SpendingTotals, error)
	ByCategory(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]repository.CategoryTotal, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) Create(ctx context.Context, userID uuid.UUID, in ExpenseInput) (*model.Expense, error) {
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	expense := &model.Expense{
		UserID:      userID,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        date,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]model.Expense, int64, error) {
	expenses, total, err := s.expenses.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, total, nil
}

func (s *expenseService) Get(ctx context.Context, userID, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) Update(ctx context.Context, userID, id uuid.UUID, in ExpenseUpdate) (*model.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}

	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Category != nil {
		expense.Category = *in.Category
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.expenses.Delete(ctx, id, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (s *expenseService) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	deleted, err := s.expenses.DeleteByIDs(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}
	return deleted, nil
}

func (s *expenseService) Total(ctx context.Context, userID uuid.UUID, from, to *time.Time) (repository.SpendingTotals, error) {
	totals, err := s.expenses.Totals(ctx, userID, from, to)
	if err != nil {
		return repository.SpendingTotals{}, fmt.Errorf("total expenses: %w", err)
	}
	totals.AvgAmount = totals.AvgAmount.Round(2)
	return totals, nil
}

func (s *expenseService) ByCategory(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]repository.CategoryTotal, error) {
	rows, err := s.expenses.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	return roundCategoryAvgs(rows), nil
}

// roundCategoryAvgs rounds averages to 2 places for presentation. Sums are
// exact and left untouched.
func roundCategoryAvgs(rows []repository.CategoryTotal) []repository.CategoryTotal {
	for i := range rows {
		rows[i].AvgAmount = rows[i].AvgAmount.Round(2)
	}
	return rows
}
