package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendwise/internal/auth"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// Statistics are the system-wide counters.
type Statistics struct {
	TotalUsers        int64           `json:"totalUsers"`
	TotalAdmins       int64           `json:"totalAdmins"`
	TotalRegularUsers int64           `json:"totalRegularUsers"`
	TotalExpenses     int64           `json:"totalExpenses"`
	TotalCategories   int64           `json:"totalCategories"`
	TotalSpending     decimal.Decimal `json:"totalSpending"`
	RecentUsers       int64           `json:"recentUsers"`
}

// SystemStats is the admin statistics report.
type SystemStats struct {
	Statistics      Statistics                `json:"statistics"`
	MostActiveUsers []repository.UserSpending `json:"mostActiveUsers"`
}

// AdminUser is a user enriched with spending counters.
type AdminUser struct {
	model.User
	ExpenseCount int64           `json:"expenseCount"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

// AdminUserDetail adds recent activity to AdminUser. CategoryCount is how
// many categories the user owns; CategoriesUsed how many distinct ones their
// expenses actually reference.
type AdminUserDetail struct {
	AdminUser
	CategoryCount  int64           `json:"categoryCount"`
	CategoriesUsed int             `json:"categoriesUsed"`
	RecentExpenses []model.Expense `json:"recentExpenses"`
}

// AdminExpenses is the system-wide expense listing.
type AdminExpenses struct {
	Expenses      []model.Expense `json:"expenses"`
	TotalExpenses int64           `json:"totalExpenses"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// AdminCreateUserInput is the payload for admin-privileged user creation.
type AdminCreateUserInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// AdminService implements the cross-user admin surface. Role gating happens
// in middleware; the self-protection rules live here because they need the
// acting user's identity.
type AdminService interface {
	Stats(ctx context.Context) (*SystemStats, error)
	ListUsers(ctx context.Context) ([]AdminUser, error)
	GetUser(ctx context.Context, id uuid.UUID) (*AdminUserDetail, error)
	CreateUser(ctx context.Context, in AdminCreateUserInput) (*model.User, error)
	UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
	ListExpenses(ctx context.Context) (*AdminExpenses, error)
}

type adminService struct {
	users      repository.UserRepository
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
	sessions   repository.SessionRepository
	cache      auth.SessionCacheInterface
	bcryptCost int
}

// NewAdminService creates a new admin service.
func NewAdminService(
	users repository.UserRepository,
	expenses repository.ExpenseRepository,
	categories repository.CategoryRepository,
	sessions repository.SessionRepository,
	cache auth.SessionCacheInterface,
	bcryptCost int,
) AdminService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &adminService{
		users:      users,
		expenses:   expenses,
		categories: categories,
		sessions:   sessions,
		cache:      cache,
		bcryptCost: bcryptCost,
	}
}

func (s *adminService) Stats(ctx context.Context) (*SystemStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalAdmins, err := s.users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	totalRegular, err := s.users.CountByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("count regular users: %w", err)
	}
	totalExpenses, err := s.expenses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}
	totalCategories, err := s.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	totalSpending, err := s.expenses.TotalAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("total spending: %w", err)
	}
	recentUsers, err := s.users.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count recent users: %w", err)
	}
	mostActive, err := s.expenses.TopSpenders(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("top spenders: %w", err)
	}

	return &SystemStats{
		Statistics: Statistics{
			TotalUsers:        totalUsers,
			TotalAdmins:       totalAdmins,
			TotalRegularUsers: totalRegular,
			TotalExpenses:     totalExpenses,
			TotalCategories:   totalCategories,
			TotalSpending:     totalSpending,
			RecentUsers:       recentUsers,
		},
		MostActiveUsers: mostActive,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	enriched := make([]AdminUser, 0, len(users))
	for _, user := range users {
		count, err := s.expenses.CountByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count expenses: %w", err)
		}
		total, err := s.expenses.TotalByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("total spent: %w", err)
		}
		enriched = append(enriched, AdminUser{User: user, ExpenseCount: count, TotalSpent: total})
	}
	return enriched, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*AdminUserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	count, err := s.expenses.CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}
	total, err := s.expenses.TotalByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("total spent: %w", err)
	}
	categoryCount, err := s.categories.CountByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	categories, err := s.expenses.DistinctCategories(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	recent, err := s.expenses.Recent(ctx, id, 10)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}

	return &AdminUserDetail{
		AdminUser:      AdminUser{User: *user, ExpenseCount: count, TotalSpent: total},
		CategoryCount:  categoryCount,
		CategoriesUsed: len(categories),
		RecentExpenses: recent,
	}, nil
}

func (s *adminService) CreateUser(ctx context.Context, in AdminCreateUserInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, apperrors.ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateRole changes a user's role. An admin can never change their own role
// through this surface, regardless of payload.
func (s *adminService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, apperrors.ErrInvalidRole
	}
	if actorID == targetID {
		return nil, apperrors.ErrSelfRoleChange
	}

	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user and everything they own: expenses, categories and
// sessions (cached entries included, so a deleted user's token dies with them).
// An admin can never delete their own account.
func (s *adminService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return apperrors.ErrSelfDelete
	}

	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.expenses.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	if err := s.categories.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}

	sessions, err := s.sessions.ListByUser(ctx, targetID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, sess := range sessions {
		_ = s.cache.Delete(ctx, sess.Token)
	}
	if err := s.sessions.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *adminService) ListExpenses(ctx context.Context) (*AdminExpenses, error) {
	expenses, err := s.expenses.ListAllRecent(ctx, 100)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	total, err := s.expenses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}
	amount, err := s.expenses.TotalAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}

	return &AdminExpenses{
		Expenses:      expenses,
		TotalExpenses: total,
		TotalAmount:   amount,
	}, nil
}
