package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"apikit/internal/auth"
	apperrors "apikit/internal/errors"
	"apikit/internal/model"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The message never says which of the two was wrong.
	ErrInvalidCredentials = apperrors.NewHTTPError(http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid,
	// expired, or revoked.
	ErrInvalidRefreshToken = apperrors.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token", "INVALID_REFRESH_TOKEN")
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type authService struct {
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with the USER role. Self-registration can
// never produce an admin.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	return s.users.Create(ctx, CreateUserInput{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.RoleUser,
	})
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		var httpErr *apperrors.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.Active {
		return "", "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, refreshID, user.ID, user.Email, s.jwtService.RefreshTTL()); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates a refresh token against the store and issues a new
// access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	// Re-resolve the user so a deactivation or role change since login takes
	// effect on the next access token.
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil || !user.Active {
		return "", ErrInvalidRefreshToken
	}

	_, accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and blacklists both tokens until their
// natural expiry. Access and refresh tokens share one signing scheme, so a
// refresh token would pass the bearer middleware too; blacklisting its JTI
// closes that path as well.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	refreshClaims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || refreshClaims.ID == "" {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshClaims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if refreshClaims.ExpiresAt != nil {
		ttl := time.Until(refreshClaims.ExpiresAt.Time)
		if err := s.tokenStore.BlacklistAccessToken(ctx, refreshClaims.ID, ttl); err != nil {
			return fmt.Errorf("blacklist refresh token: %w", err)
		}
	}

	if accessToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil || claims.ID == "" {
		// Refresh token is already revoked; an unusable access token is fine.
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.tokenStore.BlacklistAccessToken(ctx, claims.ID, ttl)
}
