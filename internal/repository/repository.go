package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// MaxPageSize caps the page size accepted by List.
const MaxPageSize = 100

var (
	// ErrNotFound is returned when no row matches the given id or unique key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidPage is returned when skip/limit are out of range.
	ErrInvalidPage = errors.New("invalid pagination")
	// ErrInvalidFilter is returned when a filter key is not a plain column name.
	ErrInvalidFilter = errors.New("invalid filter")
)

// columnPattern restricts filter keys and lookup columns to snake_case
// identifiers. Keys are interpolated into SQL, so anything else is rejected.
var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// containsSuffix marks filter keys that match by substring instead of equality.
const containsSuffix = "_contains"

// ListParams carries filtering and pagination for List.
type ListParams struct {
	Filters map[string]interface{}
	Skip    int
	Limit   int
}

// Validate checks pagination bounds and filter keys.
func (p ListParams) Validate() error {
	if p.Skip < 0 {
		return fmt.Errorf("%w: skip must be >= 0, got %d", ErrInvalidPage, p.Skip)
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit must be within [1, %d], got %d", ErrInvalidPage, MaxPageSize, p.Limit)
	}
	for key := range p.Filters {
		if !columnPattern.MatchString(strings.TrimSuffix(key, containsSuffix)) {
			return fmt.Errorf("%w: %q is not a valid filter key", ErrInvalidFilter, key)
		}
	}
	return nil
}

// CRUD is a generic GORM-backed repository over a single table.
type CRUD[T any] struct {
	db *gorm.DB
}

// NewCRUD builds a generic repository for the given model type.
func NewCRUD[T any](db *gorm.DB) *CRUD[T] {
	return &CRUD[T]{db: db}
}

// Get returns the row with the given primary key.
func (r *CRUD[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// GetByField returns the row whose unique column equals value.
func (r *CRUD[T]) GetByField(ctx context.Context, column string, value interface{}) (*T, error) {
	if !columnPattern.MatchString(column) {
		return nil, fmt.Errorf("%w: %q is not a valid column", ErrInvalidFilter, column)
	}
	var entity T
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// List returns one page of rows in primary-key order plus the total count of
// rows matching the filters regardless of the page.
func (r *CRUD[T]) List(ctx context.Context, p ListParams) ([]T, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(new(T))
	query = applyFilters(query, p.Filters)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	// Pre-allocated so an empty page serializes as [] rather than null.
	items := make([]T, 0, p.Limit)
	err := query.Session(&gorm.Session{}).
		Order("id").
		Offset(p.Skip).
		Limit(p.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

// Create inserts a new row.
func (r *CRUD[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update applies the given column changes to the row with the given id and
// returns the updated row. The read-modify-write runs in one transaction.
func (r *CRUD[T]) Update(ctx context.Context, id uint, changes map[string]interface{}) (*T, error) {
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity T
		if err := tx.First(&entity, id).Error; err != nil {
			return translate(err)
		}
		if len(changes) > 0 {
			if err := tx.Model(&entity).Updates(changes).Error; err != nil {
				return translate(err)
			}
			if err := tx.First(&entity, id).Error; err != nil {
				return translate(err)
			}
		}
		updated = &entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the row with the given id and returns the deleted snapshot.
func (r *CRUD[T]) Delete(ctx context.Context, id uint) (*T, error) {
	var deleted *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity T
		if err := tx.First(&entity, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&entity).Error; err != nil {
			return translate(err)
		}
		deleted = &entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// applyFilters adds WHERE clauses for each filter entry. Keys have already
// been validated by ListParams.Validate. A key ending in "_contains" matches
// by substring, a slice value turns into IN, everything else is equality.
func applyFilters(query *gorm.DB, filters map[string]interface{}) *gorm.DB {
	for key, value := range filters {
		if value == nil {
			continue
		}
		if strings.HasSuffix(key, containsSuffix) {
			column := strings.TrimSuffix(key, containsSuffix)
			query = query.Where(column+" LIKE ?", "%"+fmt.Sprint(value)+"%")
			continue
		}
		switch v := value.(type) {
		case []string:
			query = query.Where(key+" IN ?", v)
		case []interface{}:
			query = query.Where(key+" IN ?", v)
		default:
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// translate maps GORM errors to the repository's sentinel errors.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
