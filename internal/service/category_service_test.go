package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
)

func TestCategoryListSeedsDefaults(t *testing.T) {
	userID := uuid.New()
	categories := new(mockCategoryRepo)

	seeded := model.DefaultCategories(userID)
	categories.On("ListByUser", mock.Anything, userID).Return(nil, nil).Once()
	categories.On("CreateBatch", mock.Anything, mock.MatchedBy(func(cats []model.Category) bool {
		return len(cats) == len(seeded)
	})).Return(nil)
	categories.On("ListByUser", mock.Anything, userID).Return(seeded, nil).Once()

	svc := NewCategoryService(categories, new(mockExpenseRepo))
	got, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, len(model.ExpenseCategories))
	categories.AssertExpectations(t)
}

func TestCategoryCreate(t *testing.T) {
	userID := uuid.New()

	t.Run("normalizes the name and fills defaults", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		categories.On("FindByName", mock.Anything, userID, "coffee").
			Return(nil, gorm.ErrRecordNotFound)
		categories.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
			return c.Name == "coffee" && c.Color == "#3B82F6" && c.Icon == "category" && !c.IsDefault
		})).Return(nil)

		svc := NewCategoryService(categories, new(mockExpenseRepo))
		category, err := svc.Create(context.Background(), userID, CategoryInput{Name: "  Coffee "})
		require.NoError(t, err)
		assert.Equal(t, "coffee", category.Name)
		categories.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		categories.On("FindByName", mock.Anything, userID, "coffee").
			Return(&model.Category{Name: "coffee"}, nil)

		svc := NewCategoryService(categories, new(mockExpenseRepo))
		_, err := svc.Create(context.Background(), userID, CategoryInput{Name: "coffee"})
		assert.ErrorIs(t, err, apperrors.ErrCategoryExists)
	})
}

func TestCategoryUpdateRename(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("rename cascades the old name onto expenses", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		expenses := new(mockExpenseRepo)

		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, UserID: userID, Name: "coffee"}, nil)
		categories.On("FindByName", mock.Anything, userID, "drinks").
			Return(nil, gorm.ErrRecordNotFound)
		categories.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Category) bool {
			return c.Name == "drinks"
		})).Return(nil)
		// Expenses move from the name the category had before the update.
		expenses.On("RenameCategory", mock.Anything, userID, "coffee", "drinks").Return(nil)

		svc := NewCategoryService(categories, expenses)
		name := "Drinks"
		category, err := svc.Update(context.Background(), userID, categoryID, CategoryUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "drinks", category.Name)
		expenses.AssertExpectations(t)
	})

	t.Run("rename into a taken name is rejected before mutation", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		expenses := new(mockExpenseRepo)

		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, UserID: userID, Name: "coffee"}, nil)
		categories.On("FindByName", mock.Anything, userID, "grocery").
			Return(&model.Category{ID: uuid.New(), Name: "grocery"}, nil)

		svc := NewCategoryService(categories, expenses)
		name := "grocery"
		_, err := svc.Update(context.Background(), userID, categoryID, CategoryUpdate{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrCategoryNameExists)
		categories.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		expenses.AssertNotCalled(t, "RenameCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("same name does not cascade", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		expenses := new(mockExpenseRepo)

		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, UserID: userID, Name: "coffee"}, nil)
		categories.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		svc := NewCategoryService(categories, expenses)
		name := "Coffee"
		color := "#FF0000"
		_, err := svc.Update(context.Background(), userID, categoryID, CategoryUpdate{Name: &name, Color: &color})
		require.NoError(t, err)
		expenses.AssertNotCalled(t, "RenameCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCategoryDelete(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("deletes an unused custom category", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		expenses := new(mockExpenseRepo)

		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, Name: "coffee"}, nil)
		expenses.On("CountByCategory", mock.Anything, userID, "coffee").Return(int64(0), nil)
		categories.On("Delete", mock.Anything, categoryID).Return(nil)

		svc := NewCategoryService(categories, expenses)
		require.NoError(t, svc.Delete(context.Background(), userID, categoryID))
		categories.AssertExpectations(t)
	})

	t.Run("default categories are protected", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, Name: "grocery", IsDefault: true}, nil)

		svc := NewCategoryService(categories, new(mockExpenseRepo))
		err := svc.Delete(context.Background(), userID, categoryID)
		assert.ErrorIs(t, err, apperrors.ErrCategoryDefault)
	})

	t.Run("categories in use are protected", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		expenses := new(mockExpenseRepo)

		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(&model.Category{ID: categoryID, Name: "coffee"}, nil)
		expenses.On("CountByCategory", mock.Anything, userID, "coffee").Return(int64(7), nil)

		svc := NewCategoryService(categories, expenses)
		err := svc.Delete(context.Background(), userID, categoryID)

		var inUse *apperrors.CategoryInUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, int64(7), inUse.Count)
	})

	t.Run("missing category", func(t *testing.T) {
		categories := new(mockCategoryRepo)
		categories.On("FindByID", mock.Anything, categoryID, userID).
			Return(nil, gorm.ErrRecordNotFound)

		svc := NewCategoryService(categories, new(mockExpenseRepo))
		err := svc.Delete(context.Background(), userID, categoryID)
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestCategoryStats(t *testing.T) {
	userID := uuid.New()
	categories := new(mockCategoryRepo)
	expenses := new(mockExpenseRepo)

	categories.On("ListByUser", mock.Anything, userID).Return([]model.Category{
		{Name: "grocery", Color: "#10B981", Icon: "shopping-cart", IsDefault: true},
		{Name: "coffee", Color: "#FF0000", Icon: "category"},
	}, nil)
	expenses.On("CountByCategory", mock.Anything, userID, "grocery").Return(int64(4), nil)
	expenses.On("TotalByCategory", mock.Anything, userID, "grocery").Return(decimal.NewFromInt(120), nil)
	expenses.On("CountByCategory", mock.Anything, userID, "coffee").Return(int64(0), nil)
	expenses.On("TotalByCategory", mock.Anything, userID, "coffee").Return(decimal.Zero, nil)

	svc := NewCategoryService(categories, expenses)
	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "grocery", stats[0].Category)
	assert.Equal(t, int64(4), stats[0].ExpenseCount)
	assert.True(t, stats[0].TotalAmount.Equal(decimal.NewFromInt(120)))
	assert.True(t, stats[1].TotalAmount.IsZero())
}
