package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"apikit/internal/cache"
	apperrors "apikit/internal/errors"
	"apikit/internal/model"
	"apikit/internal/repository"
)

const countryCacheTTL = 30 * time.Minute

// CreateCountryInput carries the fields accepted when creating a country.
type CreateCountryInput struct {
	Code string
	Name string
}

// UpdateCountryInput carries a partial country update.
type UpdateCountryInput struct {
	Code   *string
	Name   *string
	Active *bool
}

// CountryService exposes reference-data operations.
type CountryService interface {
	Get(ctx context.Context, id uint) (*model.Country, error)
	GetByCode(ctx context.Context, code string) (*model.Country, error)
	List(ctx context.Context, p repository.ListParams) ([]model.Country, int64, error)
	Create(ctx context.Context, in CreateCountryInput) (*model.Country, error)
	Update(ctx context.Context, id uint, in UpdateCountryInput) (*model.Country, error)
	Delete(ctx context.Context, id uint) (*model.Country, error)
}

type countryService struct {
	repo  repository.CountryRepository
	cache *cache.Client
}

// NewCountryService builds a CountryService with repository and cache.
func NewCountryService(repo repository.CountryRepository, cache *cache.Client) CountryService {
	return &countryService{repo: repo, cache: cache}
}

func (s *countryService) cacheKey(code string) string {
	return "country:" + code
}

func (s *countryService) Get(ctx context.Context, id uint) (*model.Country, error) {
	country, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return country, nil
}

// GetByCode retrieves a country by its business key with caching. Reference
// data changes rarely, so the TTL is generous.
func (s *countryService) GetByCode(ctx context.Context, code string) (*model.Country, error) {
	code = normalizeCode(code)
	if data, _ := s.cache.Get(ctx, s.cacheKey(code)); data != nil {
		var cached model.Country
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	country, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, s.translate(err, code)
	}

	if payload, err := json.Marshal(country); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(code), payload, countryCacheTTL)
	}
	return country, nil
}

func (s *countryService) List(ctx context.Context, p repository.ListParams) ([]model.Country, int64, error) {
	countries, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, s.translate(err, nil)
	}
	return countries, total, nil
}

func (s *countryService) Create(ctx context.Context, in CreateCountryInput) (*model.Country, error) {
	code := normalizeCode(in.Code)
	if code == "" {
		return nil, apperrors.Validation("country code is required")
	}

	if _, err := s.repo.GetByCode(ctx, code); err == nil {
		return nil, errCountryExists()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check country existence: %w", err)
	}

	country := &model.Country{
		Code:   code,
		Name:   in.Name,
		Active: true,
	}
	if err := s.repo.Create(ctx, country); err != nil {
		return nil, s.translate(err, code)
	}
	return country, nil
}

func (s *countryService) Update(ctx context.Context, id uint, in UpdateCountryInput) (*model.Country, error) {
	patch := model.CountryPatch{
		Name:   in.Name,
		Active: in.Active,
	}

	var staleCode string
	if in.Code != nil {
		code := normalizeCode(*in.Code)
		existing, err := s.repo.GetByCode(ctx, code)
		if err == nil && existing.ID != id {
			return nil, errCountryExists()
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check country existence: %w", err)
		}
		patch.Code = &code
	}

	if previous, err := s.repo.Get(ctx, id); err == nil {
		staleCode = previous.Code
	}

	country, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.translate(err, id)
	}

	if staleCode != "" {
		_ = s.cache.Delete(ctx, s.cacheKey(staleCode))
	}
	_ = s.cache.Delete(ctx, s.cacheKey(country.Code))
	return country, nil
}

func (s *countryService) Delete(ctx context.Context, id uint) (*model.Country, error) {
	country, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(country.Code))
	return country, nil
}

func (s *countryService) translate(err error, ref interface{}) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("country", ref)
	case errors.Is(err, repository.ErrDuplicateKey):
		return errCountryExists()
	case errors.Is(err, repository.ErrInvalidPage), errors.Is(err, repository.ErrInvalidFilter):
		return apperrors.Validation(err.Error())
	default:
		return err
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func errCountryExists() error {
	return apperrors.Conflict("COUNTRY_ALREADY_EXISTS", "country with this code already exists")
}
