package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "spendwise/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"spendwise/internal/auth"
	"spendwise/internal/cache"
	"spendwise/internal/config"
	"spendwise/internal/db"
	"spendwise/internal/handler"
	authmw "spendwise/internal/middleware"
	"spendwise/internal/model"
	"spendwise/internal/repository"
	"spendwise/internal/router"
	"spendwise/internal/service"
)

// @title SpendWise API
// @version 1.0
// @description Personal expense tracker API with JWT authentication, spending reports and an admin surface.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Expense{},
		&model.Category{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable, session cache disabled: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	sessionCache := auth.NewSessionCache(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, categoryRepo, jwtService, sessionCache, cfg.BcryptCost)
	expenseService := service.NewExpenseService(expenseRepo)
	categoryService := service.NewCategoryService(categoryRepo, expenseRepo)
	reportService := service.NewReportService(expenseRepo)
	adminService := service.NewAdminService(userRepo, expenseRepo, categoryRepo, sessionRepo, sessionCache, cfg.BcryptCost)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(adminService)

	authenticator := authmw.NewAuthenticator(jwtService, sessionRepo, sessionCache, userRepo)

	router.Register(
		e,
		authenticator,
		authHandler,
		expenseHandler,
		categoryHandler,
		reportHandler,
		adminHandler,
	)

	go reapSessions(sessionRepo, cfg.SessionReapEvery)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// reapSessions periodically deletes expired session rows so the sessions
// table does not grow without bound. Cache entries expire on their own.
func reapSessions(sessions repository.SessionRepository, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.DeleteExpired(ctx, time.Now())
		cancel()
		if err != nil {
			log.Printf("session reaper: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("session reaper: removed %d expired sessions", n)
		}
	}
}
