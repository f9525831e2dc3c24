package repository

import (
	"context"
	"strings"

	"taller/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a listing query (e.g. by foreign key or state).
type Scope = func(*gorm.DB) *gorm.DB

// CatalogRepository is the CRUD surface shared by the catalog entities.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, p pagination.Params, scopes ...Scope) ([]T, int64, error)
	// Exists reports whether a row other than excludeID has column = value.
	Exists(ctx context.Context, column string, value any, excludeID uuid.UUID) (bool, error)
}

type catalogRepository[T any] struct {
	db            *gorm.DB
	searchColumns []string
	preloads      []string
	order         string
}

// NewCatalogRepository builds a repository for T. Search matches any of
// searchColumns as a case-insensitive substring.
func NewCatalogRepository[T any](db *gorm.DB, searchColumns []string, preloads ...string) CatalogRepository[T] {
	return &catalogRepository[T]{
		db:            db,
		searchColumns: searchColumns,
		preloads:      preloads,
		order:         "created_at desc",
	}
}

func (r *catalogRepository[T]) Create(ctx context.Context, entity *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(entity).Error
}

func (r *catalogRepository[T]) Update(ctx context.Context, entity *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(entity).Error
}

func (r *catalogRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *catalogRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.withPreloads(GetDB(ctx, r.db)).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *catalogRepository[T]) List(ctx context.Context, p pagination.Params, scopes ...Scope) ([]T, int64, error) {
	var items []T
	var total int64

	db := applyScopes(GetDB(ctx, r.db).Model(new(T)), append(scopes, SearchScope(p, r.searchColumns...))...)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.withPreloads(db).Order(r.order).Offset(p.Offset).Limit(p.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *catalogRepository[T]) Exists(ctx context.Context, column string, value any, excludeID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db).Model(new(T)).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *catalogRepository[T]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

func applyScopes(db *gorm.DB, scopes ...Scope) *gorm.DB {
	for _, s := range scopes {
		db = s(db)
	}
	return db
}

// SearchScope ORs a case-insensitive substring match over columns.
// It is a no-op when the search term is empty.
func SearchScope(p pagination.Params, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if p.Search == "" || len(columns) == 0 {
			return db
		}
		pattern := p.LikePattern()
		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// WhereEq filters column = value when value is non-empty.
func WhereEq(column string, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
}
