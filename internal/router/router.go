package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"apikit/internal/auth"
	"apikit/internal/config"
	apperrors "apikit/internal/errors"
	"apikit/internal/handler"
	"apikit/internal/middleware"
	"apikit/internal/model"
	"apikit/internal/repository"
	"apikit/internal/response"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	countryHandler *handler.CountryHandler,
	userRepo repository.UserRepository,
	tokenStore auth.TokenStoreInterface,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes: echo-jwt verifies signature and expiry, LoadUser
	// resolves the identity. Any token failure is the same generic 401.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(cfg.JWTSecret),
			SigningMethod: cfg.JWTAlgorithm,
			TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ",
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return response.Error(c, apperrors.Unauthorized())
			},
		}),
		middleware.LoadUser(userRepo, tokenStore),
	)

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateMe)

	// Reference data: reads for any authenticated role, writes admin only.
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	countries := secured.Group("/countries")
	countries.GET("", countryHandler.List)
	countries.GET("/:id", countryHandler.Get)
	countries.POST("", countryHandler.Create, adminOnly)
	countries.PUT("/:id", countryHandler.Update, adminOnly)
	countries.DELETE("/:id", countryHandler.Delete, adminOnly)

	// User management is admin only.
	users := secured.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
