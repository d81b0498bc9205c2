package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eduverse/eduverse-backend/internal/authz"
	"github.com/eduverse/eduverse-backend/internal/config"
	"github.com/eduverse/eduverse-backend/internal/database"
	"github.com/eduverse/eduverse-backend/internal/logger"
	"github.com/eduverse/eduverse-backend/internal/model"
	"github.com/eduverse/eduverse-backend/internal/repository"
)

type seedTeacher struct {
	firstName  string
	lastName   string
	email      string
	role       string
	department string
	isActive   bool
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	fmt.Println("=== Seeding Demo Teachers ===")

	teachers := []seedTeacher{
		{"Sarah", "Johnson", "sarah.johnson@school.edu", authz.RoleStandardTeacher, "Mathematics", true},
		{"Michael", "Chen", "michael.chen@school.edu", authz.RoleSeniorTeacher, "Science", true},
		{"Emily", "Davis", "emily.davis@school.edu", authz.RoleDepartmentHead, "English", true},
		{"David", "Wilson", "david.wilson@school.edu", authz.RoleNewTeacher, "History", true},
		{"Lisa", "Brown", "lisa.brown@school.edu", authz.RoleSubstituteTeacher, "Multiple", false},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("eduverse"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	successCount := 0
	for _, t := range teachers {
		user := &model.User{
			FirstName:    t.firstName,
			LastName:     t.lastName,
			Email:        t.email,
			PasswordHash: string(hash),
			Role:         t.role,
			Department:   t.department,
			IsActive:     t.isActive,
		}

		if err := userRepo.Create(ctx, user); err != nil {
			fmt.Printf("Error creating teacher %s %s (%s): %v\n", t.firstName, t.lastName, t.email, err)
			continue
		}
		successCount++
		fmt.Printf("Created %s %s (%s, %s) with ID: %d\n", t.firstName, t.lastName, t.role, t.department, user.ID)
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d teachers.\n", successCount, len(teachers))
}
