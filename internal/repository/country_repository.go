package repository

import (
	"context"

	"gorm.io/gorm"

	"apikit/internal/model"
)

// CountryRepository defines reference-data persistence operations.
type CountryRepository interface {
	Get(ctx context.Context, id uint) (*model.Country, error)
	GetByCode(ctx context.Context, code string) (*model.Country, error)
	List(ctx context.Context, p ListParams) ([]model.Country, int64, error)
	Create(ctx context.Context, country *model.Country) error
	Update(ctx context.Context, id uint, patch model.CountryPatch) (*model.Country, error)
	Delete(ctx context.Context, id uint) (*model.Country, error)
}

type countryRepository struct {
	crud *CRUD[model.Country]
}

// NewCountryRepository builds a GORM-backed country repository.
func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{crud: NewCRUD[model.Country](db)}
}

func (r *countryRepository) Get(ctx context.Context, id uint) (*model.Country, error) {
	return r.crud.Get(ctx, id)
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	return r.crud.GetByField(ctx, "code", code)
}

func (r *countryRepository) List(ctx context.Context, p ListParams) ([]model.Country, int64, error) {
	return r.crud.List(ctx, p)
}

func (r *countryRepository) Create(ctx context.Context, country *model.Country) error {
	return r.crud.Create(ctx, country)
}

func (r *countryRepository) Update(ctx context.Context, id uint, patch model.CountryPatch) (*model.Country, error) {
	return r.crud.Update(ctx, id, patch.Changes())
}

func (r *countryRepository) Delete(ctx context.Context, id uint) (*model.Country, error) {
	return r.crud.Delete(ctx, id)
}
