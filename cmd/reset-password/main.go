package main

import (
	"context"
	"flag"
	"os"

	"grocigo/internal/repository"
	"grocigo/internal/service"
	"grocigo/pkg/config"
	"grocigo/pkg/database"
	"grocigo/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "", "user name whose password is reset")
	password := flag.String("password", "", "new password")
	flag.Parse()

	// 1. Load Env
	_ = godotenv.Load()

	log := logger.New(logger.Options{ServiceName: "grocigo-reset-password", Format: "console", Output: os.Stderr})
	ctx := context.Background()

	if *userID == "" || *password == "" {
		log.Error(ctx, "usage: reset-password -user <name> -password <new>", nil)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "loading config", err)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Error(ctx, "connecting to database", err)
		os.Exit(1)
	}

	// 3. Reset, which also ends any live session
	users := service.NewUserService(repository.NewUserRepo(db), repository.NewRoleRepo(db))
	ctx = log.WithUserID(ctx, *userID)
	if err := users.ResetPassword(ctx, *userID, *password); err != nil {
		log.Error(ctx, "password reset failed", err)
		os.Exit(1)
	}
	log.Info(ctx, "password reset")
}
