package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"spendwise/internal/auth"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/model"
	"spendwise/internal/repository"
	"spendwise/internal/response"
)

const (
	userContextKey  = "auth_user"
	tokenContextKey = "auth_token"
)

// Authenticator resolves bearer tokens to users. A request is authenticated
// only when the JWT verifies AND a live session row exists for (token, userId);
// the session lookup is what makes logout and password changes take effect
// before the signed token expires.
type Authenticator struct {
	jwt      *auth.JWTService
	sessions repository.SessionRepository
	cache    auth.SessionCacheInterface
	users    repository.UserRepository
}

// NewAuthenticator creates the auth middleware provider.
func NewAuthenticator(jwt *auth.JWTService, sessions repository.SessionRepository, cache auth.SessionCacheInterface, users repository.UserRepository) *Authenticator {
	return &Authenticator{jwt: jwt, sessions: sessions, cache: cache, users: users}
}

// CurrentUser returns the authenticated user attached to the context.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

// CurrentToken returns the raw bearer token attached to the context.
func CurrentToken(c echo.Context) string {
	token, _ := c.Get(tokenContextKey).(string)
	return token
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

func (a *Authenticator) resolve(c echo.Context, token string) (*model.User, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	ctx := c.Request().Context()
	now := time.Now()

	// Cache first; entries are keyed by token and never outlive the row.
	session, _ := a.cache.Get(ctx, token)
	if session == nil || session.UserID != claims.UserID {
		session, err = a.sessions.FindLive(ctx, token, claims.UserID, now)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrSessionInvalid
			}
			return nil, err
		}
		_ = a.cache.Set(ctx, session)
	}
	if session.Expired(now) {
		return nil, apperrors.ErrSessionInvalid
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

// Authenticate requires a valid bearer token backed by a live session.
func (a *Authenticator) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return response.Fail(c, apperrors.ErrNoToken)
			}

			user, err := a.resolve(c, token)
			if err != nil {
				return response.Fail(c, err)
			}

			c.Set(userContextKey, user)
			c.Set(tokenContextKey, token)
			return next(c)
		}
	}
}

// OptionalAuthenticate attaches the user when valid credentials are present
// but lets the request proceed anonymously otherwise.
func (a *Authenticator) OptionalAuthenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			user, err := a.resolve(c, token)
			if err != nil {
				return next(c)
			}

			c.Set(userContextKey, user)
			c.Set(tokenContextKey, token)
			return next(c)
		}
	}
}

// RequireAdmin gates a route on the admin role. Must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return response.Fail(c, apperrors.ErrNoToken)
			}
			if !user.IsAdmin() {
				return response.Fail(c, apperrors.ErrForbidden)
			}
			return next(c)
		}
	}
}
