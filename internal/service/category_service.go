package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// CategoryInput is the payload for creating a category.
type CategoryInput struct {
	Name        string
	Description string
	Color       string
	Icon        string
}

// CategoryUpdate carries optional category field changes; nil means unchanged.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// CategoryStat is the per-category usage rollup.
type CategoryStat struct {
	Category     string          `json:"category"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
	IsDefault    bool            `json:"isDefault"`
	ExpenseCount int64           `json:"expenseCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// CategoryService manages user-owned expense categories.
type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	Create(ctx context.Context, userID uuid.UUID, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, in CategoryUpdate) (*model.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) ([]CategoryStat, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	expenses   repository.ExpenseRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories repository.CategoryRepository, expenses repository.ExpenseRepository) CategoryService {
	return &categoryService{categories: categories, expenses: expenses}
}

// List returns the user's categories sorted by name, seeding the 10 defaults
// the first time a user has none.
func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		if err := s.categories.CreateBatch(ctx, model.DefaultCategories(userID)); err != nil {
			return nil, fmt.Errorf("seed default categories: %w", err)
		}
		categories, err = s.categories.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
	}
	return categories, nil
}

// Create adds a category with a lowercase-normalized, per-user-unique name.
func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, in CategoryInput) (*model.Category, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))

	existing, err := s.categories.FindByName(ctx, userID, name)
	if err == nil && existing != nil {
		return nil, apperrors.ErrCategoryExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check category existence: %w", err)
	}

	category := &model.Category{
		UserID:      userID,
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
		IsDefault:   false,
	}
	if category.Color == "" {
		category.Color = "#3B82F6"
	}
	if category.Icon == "" {
		category.Icon = "category"
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update mutates a category. The rename-collision check runs against the
// captured old name before anything is reassigned, and a rename cascades the
// new name onto the owner's expenses carrying the old one.
func (s *categoryService) Update(ctx context.Context, userID, id uuid.UUID, in CategoryUpdate) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	oldName := category.Name
	newName := oldName
	if in.Name != nil {
		newName = strings.ToLower(strings.TrimSpace(*in.Name))
	}
	renamed := newName != oldName

	if renamed {
		existing, err := s.categories.FindByName(ctx, userID, newName)
		if err == nil && existing != nil && existing.ID != id {
			return nil, apperrors.ErrCategoryNameExists
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check category name: %w", err)
		}
	}

	category.Name = newName
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Color != nil {
		category.Color = *in.Color
	}
	if in.Icon != nil {
		category.Icon = *in.Icon
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if renamed {
		if err := s.expenses.RenameCategory(ctx, userID, oldName, newName); err != nil {
			return nil, fmt.Errorf("rename category on expenses: %w", err)
		}
	}
	return category, nil
}

// Delete removes a category. Default categories and categories still in use
// are protected.
func (s *categoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	category, err := s.categories.FindByID(ctx, id, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}

	if category.IsDefault {
		return apperrors.ErrCategoryDefault
	}

	count, err := s.expenses.CountByCategory(ctx, userID, category.Name)
	if err != nil {
		return fmt.Errorf("count expenses: %w", err)
	}
	if count > 0 {
		return &apperrors.CategoryInUseError{Count: count}
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Stats returns per-category expense counts and decimal totals.
func (s *categoryService) Stats(ctx context.Context, userID uuid.UUID) ([]CategoryStat, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	stats := make([]CategoryStat, 0, len(categories))
	for _, category := range categories {
		count, err := s.expenses.CountByCategory(ctx, userID, category.Name)
		if err != nil {
			return nil, fmt.Errorf("count expenses: %w", err)
		}
		total, err := s.expenses.TotalByCategory(ctx, userID, category.Name)
		if err != nil {
			return nil, fmt.Errorf("total expenses: %w", err)
		}
		stats = append(stats, CategoryStat{
			Category:     category.Name,
			Color:        category.Color,
			Icon:         category.Icon,
			IsDefault:    category.IsDefault,
			ExpenseCount: count,
			TotalAmount:  total,
		})
	}
	return stats, nil
}
