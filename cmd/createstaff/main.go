package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shadinbyte/shopease/internal/config"
	"github.com/shadinbyte/shopease/internal/infra/db"
	infraRepo "github.com/shadinbyte/shopease/internal/infra/repository"
	"github.com/shadinbyte/shopease/internal/logger"
	auth "github.com/shadinbyte/shopease/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

// スタッフアカウントを作る（既存なら昇格）
//
//	go run ./cmd/createstaff -username admin -email admin@example.com -password '...'
func main() {
	username := flag.String("username", "", "staff username")
	email := flag.String("email", "", "email (new user only)")
	password := flag.String("password", "", "password (optional for promotion)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "text", Component: "createstaff"})

	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		log.Error("connect db", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}

	uc := auth.NewCreateStaffUsecase(infraRepo.NewUserGormRepository(gormDB), auth.NewBcryptPasswordHasher(12))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, created, err := uc.Execute(ctx, auth.CreateStaffInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Error("create staff", "error", err)
		os.Exit(1)
	}

	if created {
		log.Info("staff user created", "user_id", user.ID, "username", user.Username)
	} else {
		log.Info("user promoted to staff", "user_id", user.ID, "username", user.Username)
	}
}
