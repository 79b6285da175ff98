package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"apikit/internal/auth"
	apperrors "apikit/internal/errors"
	"apikit/internal/model"
	"apikit/internal/repository"
	"apikit/internal/response"
)

// UserContextKey is the echo context key under which the resolved user is
// stored for downstream handlers.
const UserContextKey = "current_user"

// CurrentUser returns the identity resolved by LoadUser.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserContextKey).(*model.User)
	return user, ok
}

// LoadUser runs after echo-jwt has verified signature and expiry. It rejects
// blacklisted tokens, resolves the subject to a stored user, requires the
// user to be active, and stashes it in the request context. Every failure
// is the same generic 401 so callers cannot tell which check tripped.
func LoadUser(users repository.UserRepository, tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return response.Error(c, apperrors.Unauthorized())
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return response.Error(c, apperrors.Unauthorized())
			}

			ctx := c.Request().Context()
			if claims.ID != "" {
				if revoked, _ := tokens.IsAccessTokenBlacklisted(ctx, claims.ID); revoked {
					return response.Error(c, apperrors.Unauthorized())
				}
			}

			user, err := users.Get(ctx, claims.UserID)
			if err != nil || !user.Active {
				return response.Error(c, apperrors.Unauthorized())
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// RequireRoles accepts the request only if the resolved user holds one of
// the declared roles. Missing identity is 401, insufficient role is 403.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return response.Error(c, apperrors.Unauthorized())
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return response.Error(c, apperrors.Forbidden())
		}
	}
}
