package repository

import (
	"context"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RepuestoRepository interface {
	CatalogRepository[model.Repuesto]
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Repuesto, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) error
	CountSinStock(ctx context.Context) (int64, error)
}

type repuestoRepository struct {
	CatalogRepository[model.Repuesto]
	db *gorm.DB
}

func NewRepuestoRepository(db *gorm.DB) RepuestoRepository {
	return &repuestoRepository{
		CatalogRepository: NewCatalogRepository[model.Repuesto](db, []string{"nombre"}),
		db:                db,
	}
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *repuestoRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Repuesto, error) {
	var repuesto model.Repuesto
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&repuesto).Error; err != nil {
		return nil, err
	}
	return &repuesto, nil
}

func (r *repuestoRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) error {
	return GetDB(ctx, r.db).Model(&model.Repuesto{}).Where("id = ?", id).Update("stock", stock).Error
}

func (r *repuestoRepository) CountSinStock(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Repuesto{}).Where("stock <= 0").Count(&count).Error
	return count, err
}
