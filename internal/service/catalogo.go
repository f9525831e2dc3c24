package service

import (
	"context"
	"strings"

	"taller/internal/apperror"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
)

// Shared plumbing for the catalog services. Messages are user facing.

func findOrNotFound[T any](ctx context.Context, repo repository.CatalogRepository[T], id uuid.UUID, msg string) (*T, error) {
	entity, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromDB(err, "%s", msg)
	}
	return entity, nil
}

// ensureUnique fails with Conflict when another row already has column = value.
func ensureUnique[T any](ctx context.Context, repo repository.CatalogRepository[T], column string, value any, excludeID uuid.UUID, msg string) error {
	taken, err := repo.Exists(ctx, column, value, excludeID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if taken {
		return apperror.NewConflict("%s", msg)
	}
	return nil
}

func listCatalog[T any](ctx context.Context, repo repository.CatalogRepository[T], p pagination.Params, scopes ...repository.Scope) ([]T, int64, error) {
	items, total, err := repo.List(ctx, p, scopes...)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	return items, total, nil
}

func saveCatalog[T any](ctx context.Context, repo repository.CatalogRepository[T], entity *T, create bool) error {
	var err error
	if create {
		err = repo.Create(ctx, entity)
	} else {
		err = repo.Update(ctx, entity)
	}
	if err != nil {
		return apperror.FromDB(err, "Registro no encontrado")
	}
	return nil
}

func deleteCatalog[T any](ctx context.Context, repo repository.CatalogRepository[T], id uuid.UUID, msg string) error {
	if err := repo.Delete(ctx, id); err != nil {
		return apperror.FromDB(err, "%s", msg)
	}
	return nil
}

// requireText trims v and fails with a validation error naming field when empty.
func requireText(v *string, field string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return apperror.NewValidation("El campo %s es obligatorio", field)
	}
	return nil
}

// optionalText trims v and maps blank to nil.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
