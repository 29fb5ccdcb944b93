package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

func newTestAdminService(users *mockUserRepo, expenses *mockExpenseRepo, categories *mockCategoryRepo, sessions *mockSessionRepo, cache *mockSessionCache) AdminService {
	return NewAdminService(users, expenses, categories, sessions, cache, bcrypt.MinCost)
}

func TestAdminStats(t *testing.T) {
	users := new(mockUserRepo)
	expenses := new(mockExpenseRepo)
	categories := new(mockCategoryRepo)

	users.On("Count", mock.Anything).Return(int64(10), nil)
	users.On("CountByRole", mock.Anything, model.RoleAdmin).Return(int64(2), nil)
	users.On("CountByRole", mock.Anything, model.RoleUser).Return(int64(8), nil)
	expenses.On("Count", mock.Anything).Return(int64(500), nil)
	categories.On("Count", mock.Anything).Return(int64(104), nil)
	expenses.On("TotalAll", mock.Anything).Return(decimal.RequireFromString("12345.67"), nil)
	users.On("CountCreatedSince", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		// Roughly a week back.
		return time.Since(since) > 6*24*time.Hour && time.Since(since) < 8*24*time.Hour
	})).Return(int64(3), nil)
	expenses.On("TopSpenders", mock.Anything, 5).Return([]repository.UserSpending{
		{Username: "dana", ExpenseCount: 40, TotalSpent: decimal.NewFromInt(900)},
	}, nil)

	svc := newTestAdminService(users, expenses, categories, new(mockSessionRepo), new(mockSessionCache))
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Statistics.TotalUsers)
	assert.Equal(t, int64(2), stats.Statistics.TotalAdmins)
	assert.Equal(t, int64(8), stats.Statistics.TotalRegularUsers)
	assert.Equal(t, int64(3), stats.Statistics.RecentUsers)
	assert.True(t, stats.Statistics.TotalSpending.Equal(decimal.RequireFromString("12345.67")))
	assert.Len(t, stats.MostActiveUsers, 1)
}

func TestAdminCreateUser(t *testing.T) {
	t.Run("defaults to the user role", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmailOrUsername", mock.Anything, "new@example.com", "newbie").
			Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleUser
		})).Return(nil)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		user, err := svc.CreateUser(context.Background(), AdminCreateUserInput{
			Email: "new@example.com", Username: "newbie", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		svc := newTestAdminService(new(mockUserRepo), new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.CreateUser(context.Background(), AdminCreateUserInput{
			Email: "new@example.com", Username: "newbie", Password: "secret123", Role: "superadmin",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("duplicate user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmailOrUsername", mock.Anything, "new@example.com", "newbie").
			Return(&model.User{}, nil)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.CreateUser(context.Background(), AdminCreateUserInput{
			Email: "new@example.com", Username: "newbie", Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
	})
}

func TestAdminUpdateRole(t *testing.T) {
	actorID := uuid.New()
	targetID := uuid.New()

	t.Run("promotes a user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("UpdateRole", mock.Anything, targetID, model.RoleAdmin).Return(nil)
		users.On("FindByID", mock.Anything, targetID).
			Return(&model.User{ID: targetID, Role: model.RoleAdmin}, nil)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		user, err := svc.UpdateRole(context.Background(), actorID, targetID, model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
	})

	t.Run("admins cannot change their own role", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.UpdateRole(context.Background(), actorID, actorID, model.RoleUser)
		assert.ErrorIs(t, err, apperrors.ErrSelfRoleChange)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := newTestAdminService(new(mockUserRepo), new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.UpdateRole(context.Background(), actorID, targetID, "owner")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("missing user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("UpdateRole", mock.Anything, targetID, model.RoleUser).Return(gorm.ErrRecordNotFound)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.UpdateRole(context.Background(), actorID, targetID, model.RoleUser)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAdminDeleteUser(t *testing.T) {
	actorID := uuid.New()
	targetID := uuid.New()

	t.Run("cascades expenses, categories and sessions", func(t *testing.T) {
		users := new(mockUserRepo)
		expenses := new(mockExpenseRepo)
		categories := new(mockCategoryRepo)
		sessions := new(mockSessionRepo)
		cache := new(mockSessionCache)

		users.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID}, nil)
		expenses.On("DeleteByUser", mock.Anything, targetID).Return(nil)
		categories.On("DeleteByUser", mock.Anything, targetID).Return(nil)
		sessions.On("ListByUser", mock.Anything, targetID).
			Return([]model.Session{{Token: "tok-a"}}, nil)
		cache.On("Delete", mock.Anything, "tok-a").Return(nil)
		sessions.On("DeleteByUser", mock.Anything, targetID).Return(nil)
		users.On("Delete", mock.Anything, targetID).Return(nil)

		svc := newTestAdminService(users, expenses, categories, sessions, cache)
		require.NoError(t, svc.DeleteUser(context.Background(), actorID, targetID))
		users.AssertExpectations(t)
		expenses.AssertExpectations(t)
		categories.AssertExpectations(t)
		sessions.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("admins cannot delete themselves", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		err := svc.DeleteUser(context.Background(), actorID, actorID)
		assert.ErrorIs(t, err, apperrors.ErrSelfDelete)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByID", mock.Anything, targetID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		err := svc.DeleteUser(context.Background(), actorID, targetID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAdminGetUser(t *testing.T) {
	targetID := uuid.New()

	t.Run("enriches with spending and category counters", func(t *testing.T) {
		users := new(mockUserRepo)
		expenses := new(mockExpenseRepo)
		categories := new(mockCategoryRepo)

		users.On("FindByID", mock.Anything, targetID).
			Return(&model.User{ID: targetID, Username: "dana"}, nil)
		expenses.On("CountByUser", mock.Anything, targetID).Return(int64(12), nil)
		expenses.On("TotalByUser", mock.Anything, targetID).Return(decimal.NewFromInt(340), nil)
		categories.On("CountByUser", mock.Anything, targetID).Return(int64(11), nil)
		expenses.On("DistinctCategories", mock.Anything, targetID).
			Return([]string{"grocery", "dining"}, nil)
		expenses.On("Recent", mock.Anything, targetID, 10).
			Return([]model.Expense{{Category: "grocery"}}, nil)

		svc := newTestAdminService(users, expenses, categories, new(mockSessionRepo), new(mockSessionCache))
		detail, err := svc.GetUser(context.Background(), targetID)
		require.NoError(t, err)

		assert.Equal(t, "dana", detail.Username)
		assert.Equal(t, int64(12), detail.ExpenseCount)
		assert.True(t, detail.TotalSpent.Equal(decimal.NewFromInt(340)))
		assert.Equal(t, int64(11), detail.CategoryCount)
		assert.Equal(t, 2, detail.CategoriesUsed)
		assert.Len(t, detail.RecentExpenses, 1)
		categories.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByID", mock.Anything, targetID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestAdminService(users, new(mockExpenseRepo), new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
		_, err := svc.GetUser(context.Background(), targetID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAdminListUsers(t *testing.T) {
	userA := model.User{ID: uuid.New(), Username: "a"}
	userB := model.User{ID: uuid.New(), Username: "b"}

	users := new(mockUserRepo)
	expenses := new(mockExpenseRepo)

	users.On("List", mock.Anything).Return([]model.User{userA, userB}, nil)
	expenses.On("CountByUser", mock.Anything, userA.ID).Return(int64(3), nil)
	expenses.On("TotalByUser", mock.Anything, userA.ID).Return(decimal.NewFromInt(60), nil)
	expenses.On("CountByUser", mock.Anything, userB.ID).Return(int64(0), nil)
	expenses.On("TotalByUser", mock.Anything, userB.ID).Return(decimal.Zero, nil)

	svc := newTestAdminService(users, expenses, new(mockCategoryRepo), new(mockSessionRepo), new(mockSessionCache))
	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ExpenseCount)
	assert.True(t, got[1].TotalSpent.IsZero())
}
