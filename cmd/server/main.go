package main

import (
	"log"
	"net/http"
	"os"

	_ "apikit/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"apikit/internal/auth"
	"apikit/internal/cache"
	"apikit/internal/config"
	"apikit/internal/db"
	"apikit/internal/handler"
	"apikit/internal/model"
	"apikit/internal/repository"
	"apikit/internal/router"
	"apikit/internal/service"
)

// @title CRUD API Starter
// @version 1.0
// @description User and reference-data CRUD API with JWT authentication and role-based authorization.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.User{},
			&model.Country{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Country{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	countryRepo := repository.NewCountryRepository(gormDB)

	// Initialize auth components
	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTAudience, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("jwt init: %v", err)
	}
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	countryService := service.NewCountryService(countryRepo, cacheClient)
	authService := service.NewAuthService(userService, jwtService, tokenStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	countryHandler := handler.NewCountryHandler(countryService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		userHandler,
		countryHandler,
		userRepo,
		tokenStore,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
