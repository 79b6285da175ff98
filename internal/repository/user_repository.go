package repository

import (
	"context"

	"gorm.io/gorm"

	"apikit/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, p ListParams) ([]model.User, int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id uint) (*model.User, error)
}

type userRepository struct {
	crud *CRUD[model.User]
}

// NewUserRepository builds a GORM-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{crud: NewCRUD[model.User](db)}
}

func (r *userRepository) Get(ctx context.Context, id uint) (*model.User, error) {
	return r.crud.Get(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.crud.GetByField(ctx, "email", email)
}

func (r *userRepository) List(ctx context.Context, p ListParams) ([]model.User, int64, error) {
	return r.crud.List(ctx, p)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.crud.Create(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error) {
	return r.crud.Update(ctx, id, patch.Changes())
}

func (r *userRepository) Delete(ctx context.Context, id uint) (*model.User, error) {
	return r.crud.Delete(ctx, id)
}
