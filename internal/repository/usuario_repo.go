package repository

import (
	"context"

	"taller/internal/model"

	"gorm.io/gorm"
)

// UsuarioRepository defines the interface for data access of Usuario entities
type UsuarioRepository interface {
	CatalogRepository[model.Usuario]
	FindByNombre(ctx context.Context, nombre string) (*model.Usuario, error)
}

type usuarioRepository struct {
	CatalogRepository[model.Usuario]
	db *gorm.DB
}

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository {
	return &usuarioRepository{
		CatalogRepository: NewCatalogRepository[model.Usuario](db, []string{"nombre", "tipo"}),
		db:                db,
	}
}

func (r *usuarioRepository) FindByNombre(ctx context.Context, nombre string) (*model.Usuario, error) {
	var u model.Usuario
	if err := GetDB(ctx, r.db).Where("nombre = ?", nombre).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
