package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"apikit/internal/auth"
	"apikit/internal/model"
	"apikit/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, p repository.ListParams) ([]model.User, int64, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func verifiedToken(claims *auth.Claims) *jwt.Token {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Valid = true
	return token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	code, _ := body["error_code"].(string)
	return code
}

func TestLoadUser(t *testing.T) {
	claims := &auth.Claims{UserID: 7, Email: "a@x.com", Role: model.RoleUser}
	claims.ID = "jti-7"

	t.Run("resolves active user into context", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, uint(7)).
			Return(&model.User{ID: 7, Email: "a@x.com", Role: model.RoleUser, Active: true}, nil)
		tokens := new(MockTokenStore)
		tokens.On("IsAccessTokenBlacklisted", mock.Anything, "jti-7").Return(false, nil)

		c, rec := newContext()
		c.Set("user", verifiedToken(claims))

		var resolved *model.User
		err := LoadUser(users, tokens)(func(c echo.Context) error {
			resolved, _ = CurrentUser(c)
			return c.NoContent(http.StatusOK)
		})(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, resolved)
		assert.Equal(t, uint(7), resolved.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		c, rec := newContext()

		err := LoadUser(new(MockUserRepository), new(MockTokenStore))(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "NOT_AUTHENTICATED", errorCode(t, rec))
	})

	t.Run("blacklisted token", func(t *testing.T) {
		tokens := new(MockTokenStore)
		tokens.On("IsAccessTokenBlacklisted", mock.Anything, "jti-7").Return(true, nil)

		c, rec := newContext()
		c.Set("user", verifiedToken(claims))

		err := LoadUser(new(MockUserRepository), tokens)(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, uint(7)).Return(nil, repository.ErrNotFound)
		tokens := new(MockTokenStore)
		tokens.On("IsAccessTokenBlacklisted", mock.Anything, "jti-7").Return(false, nil)

		c, rec := newContext()
		c.Set("user", verifiedToken(claims))

		err := LoadUser(users, tokens)(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deactivated user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, uint(7)).
			Return(&model.User{ID: 7, Active: false}, nil)
		tokens := new(MockTokenStore)
		tokens.On("IsAccessTokenBlacklisted", mock.Anything, "jti-7").Return(false, nil)

		c, rec := newContext()
		c.Set("user", verifiedToken(claims))

		err := LoadUser(users, tokens)(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	adminOnly := RequireRoles(model.RoleAdmin)

	t.Run("no resolved user", func(t *testing.T) {
		c, rec := newContext()

		err := adminOnly(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "NOT_AUTHENTICATED", errorCode(t, rec))
	})

	t.Run("insufficient role", func(t *testing.T) {
		c, rec := newContext()
		c.Set(UserContextKey, &model.User{ID: 1, Role: model.RoleUser, Active: true})

		err := adminOnly(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "INSUFFICIENT_ROLE", errorCode(t, rec))
	})

	t.Run("admin passes", func(t *testing.T) {
		c, rec := newContext()
		c.Set(UserContextKey, &model.User{ID: 1, Role: model.RoleAdmin, Active: true})

		err := adminOnly(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		c, rec := newContext()
		c.Set(UserContextKey, &model.User{ID: 1, Role: model.RoleUser, Active: true})

		err := RequireRoles(model.RoleAdmin, model.RoleUser)(okHandler)(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
