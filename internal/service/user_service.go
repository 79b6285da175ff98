package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"apikit/internal/cache"
	apperrors "apikit/internal/errors"
	"apikit/internal/model"
	"apikit/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// CreateUserInput carries the fields accepted when creating a user.
// Password arrives in plaintext and is hashed before persistence.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.Role
}

// UpdateUserInput carries a partial user update. Nil fields are left as-is.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *model.Role
	Active    *bool
}

// UserService exposes user domain operations.
type UserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, p repository.ListParams) ([]model.User, int64, error)
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	Deactivate(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.translate(err, email)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, p repository.ListParams) ([]model.User, int64, error) {
	users, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, s.translate(err, nil)
	}
	return users, total, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown role %q", in.Role))
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	// Pre-flight uniqueness check so callers get a clean conflict instead of
	// a store error. The unique index still backstops concurrent creates.
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, errUserExists()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, s.translate(err, in.Email)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	patch := model.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Active:    in.Active,
	}

	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("unknown role %q", *in.Role))
		}
		patch.Role = in.Role
	}

	if in.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *in.Email)
		if err == nil && existing.ID != id {
			return nil, errUserExists()
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check user existence: %w", err)
		}
		patch.Email = in.Email
	}

	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash := string(hashed)
		patch.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.translate(err, id)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// Deactivate soft-deletes a user by clearing the active flag. The row is
// kept so email uniqueness still holds across inactive users.
func (s *userService) Deactivate(ctx context.Context, id uint) (*model.User, error) {
	inactive := false
	user, err := s.repo.Update(ctx, id, model.UserPatch{Active: &inactive})
	if err != nil {
		return nil, s.translate(err, id)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) translate(err error, ref interface{}) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("user", ref)
	case errors.Is(err, repository.ErrDuplicateKey):
		return errUserExists()
	case errors.Is(err, repository.ErrInvalidPage), errors.Is(err, repository.ErrInvalidFilter):
		return apperrors.Validation(err.Error())
	default:
		return err
	}
}

func errUserExists() error {
	return apperrors.Conflict("USER_ALREADY_EXISTS", "user with this email already exists")
}
