package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"spendwise/internal/handler"
	authmw "spendwise/internal/middleware"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	authenticator *authmw.Authenticator,
	authHandler *handler.AuthHandler,
	expenseHandler *handler.ExpenseHandler,
	categoryHandler *handler.CategoryHandler,
	reportHandler *handler.ReportHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.Validator = NewCustomValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a live session)
	secured := api.Group("", authenticator.Authenticate())

	secured.GET("/auth/me", authHandler.Me)
	secured.POST("/auth/logout", authHandler.Logout)
	secured.PUT("/auth/profile", authHandler.UpdateProfile)
	secured.PUT("/auth/change-password", authHandler.ChangePassword)

	// Expense routes. Fixed paths register before the :id routes so
	// "total" never parses as an expense id.
	secured.GET("/expenses", expenseHandler.List)
	secured.POST("/expenses", expenseHandler.Create)
	secured.GET("/expenses/total", expenseHandler.Total)
	secured.GET("/expenses/by-category", expenseHandler.ByCategory)
	secured.POST("/expenses/delete-multiple", expenseHandler.DeleteMany)
	secured.GET("/expenses/:id", expenseHandler.Get)
	secured.PUT("/expenses/:id", expenseHandler.Update)
	secured.DELETE("/expenses/:id", expenseHandler.Delete)

	// Category routes
	secured.GET("/categories", categoryHandler.List)
	secured.POST("/categories", categoryHandler.Create)
	secured.GET("/categories/stats", categoryHandler.Stats)
	secured.PUT("/categories/:id", categoryHandler.Update)
	secured.DELETE("/categories/:id", categoryHandler.Delete)

	// Report routes
	secured.GET("/reports/dashboard", reportHandler.Dashboard)
	secured.GET("/reports/trends", reportHandler.Trends)
	secured.GET("/reports/weekly", reportHandler.Weekly)
	secured.GET("/reports/monthly", reportHandler.Monthly)
	secured.GET("/reports/yearly", reportHandler.Yearly)

	// Admin routes
	admin := secured.Group("/admin", authmw.RequireAdmin())
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id/role", adminHandler.UpdateRole)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/expenses", adminHandler.ListExpenses)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds the request validator with the custom
// username rule registered.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
