package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"apikit/internal/config"
	"apikit/internal/db"
	"apikit/internal/model"
	"apikit/internal/repository"
)

// countrySeed is the reference-data set loaded on first run.
var countrySeed = []model.Country{
	{Code: "AR", Name: "Argentina", Active: true},
	{Code: "AU", Name: "Australia", Active: true},
	{Code: "BR", Name: "Brazil", Active: true},
	{Code: "CA", Name: "Canada", Active: true},
	{Code: "CH", Name: "Switzerland", Active: true},
	{Code: "CN", Name: "China", Active: true},
	{Code: "DE", Name: "Germany", Active: true},
	{Code: "EG", Name: "Egypt", Active: true},
	{Code: "ES", Name: "Spain", Active: true},
	{Code: "FR", Name: "France", Active: true},
	{Code: "GB", Name: "United Kingdom", Active: true},
	{Code: "IN", Name: "India", Active: true},
	{Code: "IT", Name: "Italy", Active: true},
	{Code: "JP", Name: "Japan", Active: true},
	{Code: "KE", Name: "Kenya", Active: true},
	{Code: "MX", Name: "Mexico", Active: true},
	{Code: "NG", Name: "Nigeria", Active: true},
	{Code: "NL", Name: "Netherlands", Active: true},
	{Code: "NO", Name: "Norway", Active: true},
	{Code: "PL", Name: "Poland", Active: true},
	{Code: "SA", Name: "Saudi Arabia", Active: true},
	{Code: "SE", Name: "Sweden", Active: true},
	{Code: "SG", Name: "Singapore", Active: true},
	{Code: "US", Name: "United States", Active: true},
	{Code: "ZA", Name: "South Africa", Active: true},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Country{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	countryRepo := repository.NewCountryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	log.Println("Seeding countries into database...")
	seeded, updated, err := seedCountries(ctx, countryRepo, countrySeed)
	if err != nil {
		log.Fatalf("Failed to seed countries: %v", err)
	}

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New countries created: %d", seeded)
	log.Printf("  - Existing countries updated: %d", updated)
	log.Printf("  - Total countries processed: %d", seeded+updated)
}

// seedCountries creates or refreshes the reference rows, keyed by code.
func seedCountries(ctx context.Context, repo repository.CountryRepository, countries []model.Country) (seeded int, updated int, err error) {
	for _, country := range countries {
		existing, err := repo.GetByCode(ctx, country.Code)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return seeded, updated, fmt.Errorf("error checking country %s: %w", country.Code, err)
		}

		if existing != nil {
			patch := model.CountryPatch{Name: &country.Name, Active: &country.Active}
			if _, err := repo.Update(ctx, existing.ID, patch); err != nil {
				return seeded, updated, fmt.Errorf("error updating country %s: %w", country.Code, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, &country); err != nil {
				return seeded, updated, fmt.Errorf("error creating country %s: %w", country.Code, err)
			}
			seeded++
		}
	}

	return seeded, updated, nil
}

// seedAdmin creates the initial admin user unless one with the configured
// email already exists. Credentials come from the environment.
func seedAdmin(ctx context.Context, repo repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("error checking admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    "Admin",
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Admin user %s created", email)
	return nil
}
