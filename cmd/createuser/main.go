// Command createuser bootstraps a login, typically the first admin.
// The password is read from QUOTECRM_NEW_USER_PASSWORD when -password is empty.
// Usage: go run ./cmd/createuser -username admin -role admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	noopcache "quotecrm/internal/cache/noop"
	"quotecrm/internal/config"
	"quotecrm/internal/domain"
	"quotecrm/internal/logger"
	"quotecrm/internal/repository/postgres"
	"quotecrm/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	username := flag.String("username", "", "login name (required)")
	password := flag.String("password", "", "password, at least 8 characters")
	role := flag.String("role", string(domain.RoleAdmin), "admin, manager or sales")
	email := flag.String("email", "", "email address")
	fullName := flag.String("name", "", "full name")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		return fmt.Errorf("-username is required")
	}
	if *password == "" {
		*password = os.Getenv("QUOTECRM_NEW_USER_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	zapLog := logger.New(cfg.Log)
	defer func() { _ = zapLog.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	userRepo := postgres.NewUserRepo(db)
	caps := service.NewCapabilityService(userRepo, postgres.NewTxManager(db), noopcache.NewCapabilityCache(), zapLog)
	users := service.NewUserService(userRepo, caps)

	user, err := users.Create(context.Background(), service.CreateUserInput{
		Username: *username,
		Email:    *email,
		Password: *password,
		FullName: *fullName,
		Role:     domain.UserRole(*role),
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	zapLog.Info("user created", zap.String("id", user.ID.String()), zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return nil
}
