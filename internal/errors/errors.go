package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors returned by services. Handlers map them to HTTP statuses via
// StatusFor; anything unrecognized is a 500 with a generic message.
var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when the username is already taken.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserExists is returned when either email or username collides and
	// the caller did not ask which.
	ErrUserExists = errors.New("user with this email or username already exists")
	// ErrInvalidCredentials is returned for unknown email or wrong password.
	// Deliberately identical in both cases to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword is returned when the current password does not verify.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrNoToken is returned when the Authorization header is missing or malformed.
	ErrNoToken = errors.New("no token provided, authorization denied")
	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrSessionInvalid is returned when no live session row backs the token.
	ErrSessionInvalid = errors.New("session expired or invalid, please login again")
	// ErrForbidden is returned on role mismatch.
	ErrForbidden = errors.New("admin access required")
	// ErrSelfRoleChange guards an admin against demoting their own account.
	ErrSelfRoleChange = errors.New("you cannot change your own admin status")
	// ErrSelfDelete guards an admin against deleting their own account.
	ErrSelfDelete = errors.New("you cannot delete your own account")
	// ErrInvalidRole is returned for a role outside {user, admin}.
	ErrInvalidRole = errors.New("valid role (user or admin) is required")
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrExpenseNotFound is returned when the expense is absent or not owned by the caller.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrCategoryNotFound is returned when the category is absent or not owned by the caller.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryExists is returned on a per-user category name collision.
	ErrCategoryExists = errors.New("category already exists")
	// ErrCategoryNameExists is returned when a rename collides with another category.
	ErrCategoryNameExists = errors.New("category name already exists")
	// ErrCategoryDefault is returned when deleting a default category.
	ErrCategoryDefault = errors.New("cannot delete default categories")
)

// CategoryInUseError rejects deleting a category still referenced by expenses.
type CategoryInUseError struct {
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("cannot delete category, %d expense(s) are using this category", e.Count)
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoToken),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrSessionInvalid),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrSelfRoleChange),
		errors.Is(err, ErrSelfDelete):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrExpenseNotFound),
		errors.Is(err, ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrCategoryExists),
		errors.Is(err, ErrCategoryNameExists),
		errors.Is(err, ErrCategoryDefault):
		return http.StatusBadRequest
	default:
		var inUse *CategoryInUseError
		if errors.As(err, &inUse) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
