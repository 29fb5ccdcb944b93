package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendwise/internal/auth"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
)

func newTestAuthService(users *mockUserRepo, sessions *mockSessionRepo, categories *mockCategoryRepo, cache *mockSessionCache) AuthService {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(users, sessions, categories, jwtService, cache, bcrypt.MinCost)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	categories := new(mockCategoryRepo)
	cache := new(mockSessionCache)

	users.On("FindByEmailOrUsername", mock.Anything, "dana@example.com", "dana").
		Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	categories.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]model.Category")).Return(nil)
	sessions.On("Create", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)
	cache.On("Set", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)

	svc := newTestAuthService(users, sessions, categories, cache)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Dana@Example.com",
		Username: "dana",
		Password: "secret123",
	}, SessionMeta{IPAddress: "127.0.0.1"})
	require.NoError(t, err)

	// Email is normalized to lower case before storage.
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEmpty(t, token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	// Default categories are seeded for the new user.
	categories.AssertCalled(t, "CreateBatch", mock.Anything, mock.MatchedBy(func(cats []model.Category) bool {
		return len(cats) == len(model.ExpenseCategories)
	}))
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestRegisterConflicts(t *testing.T) {
	taken := &model.User{Email: "dana@example.com", Username: "someone_else"}

	t.Run("email taken", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmailOrUsername", mock.Anything, "dana@example.com", "dana").
			Return(taken, nil)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))
		_, _, err := svc.Register(context.Background(), RegisterInput{
			Email: "dana@example.com", Username: "dana", Password: "secret123",
		}, SessionMeta{})
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	})

	t.Run("username taken", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmailOrUsername", mock.Anything, "other@example.com", "dana").
			Return(&model.User{Email: "dana@example.com", Username: "dana"}, nil)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))
		_, _, err := svc.Register(context.Background(), RegisterInput{
			Email: "other@example.com", Username: "dana", Password: "secret123",
		}, SessionMeta{})
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})
}

func TestLogin(t *testing.T) {
	userID := uuid.New()
	stored := &model.User{
		ID:           userID,
		Email:        "dana@example.com",
		PasswordHash: hashPassword(t, "secret123"),
	}

	t.Run("valid credentials open a session", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		cache := new(mockSessionCache)

		users.On("FindByEmail", mock.Anything, "dana@example.com").Return(stored, nil)
		sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
			return s.UserID == userID && s.Token != "" && s.ExpiresAt.After(time.Now())
		})).Return(nil)
		cache.On("Set", mock.Anything, mock.AnythingOfType("*model.Session")).Return(nil)

		svc := newTestAuthService(users, sessions, new(mockCategoryRepo), cache)
		user, token, err := svc.Login(context.Background(), "Dana@Example.com ", "secret123", SessionMeta{})
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.NotEmpty(t, token)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByEmail", mock.Anything, "dana@example.com").Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))

		_, _, err := svc.Login(context.Background(), "dana@example.com", "wrong", SessionMeta{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		_, _, err = svc.Login(context.Background(), "ghost@example.com", "secret123", SessionMeta{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	sessions := new(mockSessionRepo)
	cache := new(mockSessionCache)
	sessions.On("DeleteByToken", mock.Anything, "tok").Return(nil)
	cache.On("Delete", mock.Anything, "tok").Return(nil)

	svc := newTestAuthService(new(mockUserRepo), sessions, new(mockCategoryRepo), cache)
	require.NoError(t, svc.Logout(context.Background(), "tok"))
	sessions.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("updates both fields", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindTakenByOther", mock.Anything, userID, "new@example.com", "newname").
			Return(nil, gorm.ErrRecordNotFound)
		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, Email: "old@example.com", Username: "oldname"}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" && u.Username == "newname"
		})).Return(nil)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))
		user, err := svc.UpdateProfile(context.Background(), userID, "New@Example.com", "newname")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		users.AssertExpectations(t)
	})

	t.Run("rejects a username held by another user", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindTakenByOther", mock.Anything, userID, "", "newname").
			Return(&model.User{Username: "newname"}, nil)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))
		_, err := svc.UpdateProfile(context.Background(), userID, "", "newname")
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})
}

func TestChangePassword(t *testing.T) {
	userID := uuid.New()

	t.Run("rotates the hash and revokes all sessions", func(t *testing.T) {
		users := new(mockUserRepo)
		sessions := new(mockSessionRepo)
		cache := new(mockSessionCache)

		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, PasswordHash: hashPassword(t, "oldpass")}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass123")) == nil
		})).Return(nil)
		sessions.On("ListByUser", mock.Anything, userID).
			Return([]model.Session{{Token: "tok-a"}, {Token: "tok-b"}}, nil)
		cache.On("Delete", mock.Anything, "tok-a").Return(nil)
		cache.On("Delete", mock.Anything, "tok-b").Return(nil)
		sessions.On("DeleteByUser", mock.Anything, userID).Return(nil)

		svc := newTestAuthService(users, sessions, new(mockCategoryRepo), cache)
		require.NoError(t, svc.ChangePassword(context.Background(), userID, "oldpass", "newpass123"))
		sessions.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		users := new(mockUserRepo)
		users.On("FindByID", mock.Anything, userID).
			Return(&model.User{ID: userID, PasswordHash: hashPassword(t, "oldpass")}, nil)

		svc := newTestAuthService(users, new(mockSessionRepo), new(mockCategoryRepo), new(mockSessionCache))
		err := svc.ChangePassword(context.Background(), userID, "nope", "newpass123")
		assert.ErrorIs(t, err, apperrors.ErrWrongPassword)
	})
}
