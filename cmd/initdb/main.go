// Package main seeds the database with the initial staff accounts.
//
// Run once before first start:
//
//	go run ./cmd/initdb
//
// It creates an admin and a faculty account only when the users table is
// empty — re-running against a populated database is a no-op. Credentials
// can be overridden through ADMIN_PASSWORD / FACULTY_PASSWORD.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/model"
	sqliteRepo "github.com/sakif/student-records/internal/repository/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/students.db"
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sqliteRepo.New(dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	count, err := db.CountUsers(ctx)
	if err != nil {
		logger.Error("failed to count users", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if count > 0 {
		logger.Info("users already exist, nothing to do", slog.Int("count", count))
		return
	}

	passwords := auth.NewPasswordService()

	seeds := []struct {
		username  string
		email     string
		password  string
		firstName string
		lastName  string
		role      model.Role
	}{
		{
			username:  "admin",
			email:     "admin@university.edu",
			password:  envOr("ADMIN_PASSWORD", "admin123"),
			firstName: "System",
			lastName:  "Administrator",
			role:      model.RoleAdmin,
		},
		{
			username:  "faculty",
			email:     "faculty@university.edu",
			password:  envOr("FACULTY_PASSWORD", "faculty123"),
			firstName: "John",
			lastName:  "Professor",
			role:      model.RoleFaculty,
		},
	}

	for _, seed := range seeds {
		hash, err := passwords.Hash(seed.password)
		if err != nil {
			logger.Error("failed to hash password", slog.String("user", seed.username), slog.String("error", err.Error()))
			os.Exit(1)
		}

		user := &model.User{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: hash,
			FirstName:    seed.firstName,
			LastName:     seed.lastName,
			Role:         seed.role,
			IsActive:     true,
		}
		if err := db.CreateUser(ctx, user); err != nil {
			logger.Error("failed to create user", slog.String("user", seed.username), slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("created user",
			slog.String("username", seed.username),
			slog.String("role", string(seed.role)),
		)
	}

	logger.Info("database initialized; change the default passwords after first login")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
