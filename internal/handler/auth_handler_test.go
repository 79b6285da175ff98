package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "apikit/internal/errors"
	"apikit/internal/model"
	"apikit/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	args := m.Called(ctx, email, password, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

var _ service.AuthService = (*MockAuthService)(nil)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newRequestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success returns the user without the password hash", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "a@x.com", "Valid123!", "Ada", "Lovelace").
			Return(&model.User{
				ID:           1,
				Email:        "a@x.com",
				PasswordHash: "$2a$10$secret",
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Role:         model.RoleUser,
				Active:       true,
			}, nil)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/register",
			`{"email":"a@x.com","password":"Valid123!","first_name":"Ada","last_name":"Lovelace"}`)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "a@x.com", data["email"])
		assert.Equal(t, "USER", data["role"])
		// The hash is tagged json:"-" and must never serialize.
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "a@x.com", "Valid123!", "", "").
			Return(nil, apperrors.Conflict("USER_ALREADY_EXISTS", "user with this email already exists"))
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/register",
			`{"email":"a@x.com","password":"Valid123!"}`)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "USER_ALREADY_EXISTS", body["error_code"])
	})

	t.Run("malformed email fails validation before the service", func(t *testing.T) {
		svc := new(MockAuthService)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/register",
			`{"email":"not-an-email","password":"Valid123!"}`)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec)["error_code"])
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid json body", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService))

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/register", `{"email":`)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns both tokens", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "Valid123!").
			Return("access.jwt.token", "refresh.jwt.token", &model.User{ID: 1, Email: "a@x.com"}, nil)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/login",
			`{"email":"a@x.com","password":"Valid123!"}`)

		assert.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "access.jwt.token", data["access_token"])
		assert.Equal(t, "refresh.jwt.token", data["refresh_token"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, "a@x.com", "wrong").
			Return("", "", nil, service.ErrInvalidCredentials)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/login",
			`{"email":"a@x.com","password":"wrong"}`)

		assert.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec)["error_code"])
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("success omits the refresh token from the response", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Refresh", mock.Anything, "refresh.jwt.token").Return("new.access.token", nil)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/refresh",
			`{"refresh_token":"refresh.jwt.token"}`)

		assert.NoError(t, h.Refresh(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "new.access.token", data["access_token"])
		_, present := data["refresh_token"]
		assert.False(t, present)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Refresh", mock.Anything, "expired").Return("", service.ErrInvalidRefreshToken)
		h := NewAuthHandler(svc)

		c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/refresh",
			`{"refresh_token":"expired"}`)

		assert.NoError(t, h.Refresh(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeBody(t, rec)["error_code"])
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, "access.jwt.token", "refresh.jwt.token").Return(nil)
	h := NewAuthHandler(svc)

	c, rec := newRequestContext(http.MethodPost, "/api/v1/auth/logout",
		`{"refresh_token":"refresh.jwt.token"}`)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer access.jwt.token")

	assert.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
