package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"spendwise/internal/config"
	"spendwise/internal/db"
	"spendwise/internal/model"
	"spendwise/internal/repository"
)

// Promotes an existing user to admin, or creates a fresh admin account
// when no user matches the email. Intended for bootstrapping a new
// deployment from the shell.
func main() {
	var (
		email    = flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
		username = flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username (used only when creating)")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (used only when creating)")
	)
	flag.Parse()

	if *email == "" {
		log.Fatal("email is required (-email or ADMIN_EMAIL)")
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	users := repository.NewUserRepository(gormDB)
	categories := repository.NewCategoryRepository(gormDB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	addr := strings.ToLower(strings.TrimSpace(*email))

	user, err := users.FindByEmail(ctx, addr)
	switch {
	case err == nil:
		if user.Role == model.RoleAdmin {
			log.Printf("%s is already an admin", addr)
			return
		}
		if err := users.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
			log.Fatalf("promote user: %v", err)
		}
		log.Printf("promoted %s to admin", addr)

	case errors.Is(err, gorm.ErrRecordNotFound):
		if *username == "" || *password == "" {
			log.Fatal("user not found; username and password are required to create one")
		}
		if len(*password) < 6 {
			log.Fatal("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.BcryptCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		admin := &model.User{
			Email:        addr,
			Username:     strings.TrimSpace(*username),
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("create admin: %v", err)
		}
		if err := categories.CreateBatch(ctx, model.DefaultCategories(admin.ID)); err != nil {
			log.Printf("seed default categories: %v", err)
		}
		log.Printf("created admin %s (%s)", admin.Username, admin.Email)

	default:
		log.Fatalf("lookup user: %v", err)
	}
}
