package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendwise/internal/auth"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// SessionMeta carries request metadata recorded on each session row.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// AuthService handles registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput, meta SessionMeta) (*model.User, string, error)
	Login(ctx context.Context, email, password string, meta SessionMeta) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, email, username string) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	categories repository.CategoryRepository
	jwtService *auth.JWTService
	cache      auth.SessionCacheInterface
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	categories repository.CategoryRepository,
	jwtService *auth.JWTService,
	cache auth.SessionCacheInterface,
	bcryptCost int,
) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:      users,
		sessions:   sessions,
		categories: categories,
		jwtService: jwtService,
		cache:      cache,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user, seeds their default categories and opens a session.
func (s *authService) Register(ctx context.Context, in RegisterInput, meta SessionMeta) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	existing, err := s.users.FindByEmailOrUsername(ctx, email, username)
	if err == nil && existing != nil {
		if existing.Email == email {
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", apperrors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	if err := s.categories.CreateBatch(ctx, model.DefaultCategories(user.ID)); err != nil {
		return nil, "", fmt.Errorf("seed default categories: %w", err)
	}

	token, err := s.issueSession(ctx, user.ID, meta)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a new session. Unknown email and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string, meta SessionMeta) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, user.ID, meta)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the session for token. Revoking an absent session is not an
// error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	_ = s.cache.Delete(ctx, token)
	return nil
}

// UpdateProfile changes email and/or username after checking neither is held
// by another user.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, email, username string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email != "" || username != "" {
		existing, err := s.users.FindTakenByOther(ctx, userID, email, username)
		if err == nil && existing != nil {
			if username != "" && existing.Username == username {
				return nil, apperrors.ErrUsernameTaken
			}
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check taken: %w", err)
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every session for the user so all devices must log in again.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	// Cached entries go first so a stale cache cannot outlive the rows.
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, sess := range sessions {
		_ = s.cache.Delete(ctx, sess.Token)
	}
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

func (s *authService) issueSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) (string, error) {
	token, err := s.jwtService.GenerateToken(userID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	session := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtService.TTL()),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	_ = s.cache.Set(ctx, session)

	return token, nil
}
