package repository

import (
	"context"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProveedorRepository interface {
	CatalogRepository[model.Proveedor]
	UpsertRepuesto(ctx context.Context, link *model.ProveedorRepuesto) error
	FindRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) (*model.ProveedorRepuesto, error)
	ListRepuestos(ctx context.Context, proveedorID uuid.UUID) ([]model.ProveedorRepuesto, error)
	DeleteRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) error
	DeleteRepuestosByProveedorID(ctx context.Context, proveedorID uuid.UUID) error
}

type proveedorRepository struct {
	CatalogRepository[model.Proveedor]
	db *gorm.DB
}

func NewProveedorRepository(db *gorm.DB) ProveedorRepository {
	return &proveedorRepository{
		CatalogRepository: NewCatalogRepository[model.Proveedor](db, []string{"razon_social", "cuit", "email"}),
		db:                db,
	}
}

// UpsertRepuesto inserts the supplier-part link or refreshes its price and state.
// On conflict link.ID is not the stored id; re-read with FindRepuesto.
func (r *proveedorRepository) UpsertRepuesto(ctx context.Context, link *model.ProveedorRepuesto) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "proveedor_id"}, {Name: "repuesto_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"precio", "activo", "updated_at"}),
	}).Create(link).Error
}

func (r *proveedorRepository) FindRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) (*model.ProveedorRepuesto, error) {
	var link model.ProveedorRepuesto
	if err := GetDB(ctx, r.db).Preload("Repuesto").
		Where("proveedor_id = ? AND repuesto_id = ?", proveedorID, repuestoID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *proveedorRepository) ListRepuestos(ctx context.Context, proveedorID uuid.UUID) ([]model.ProveedorRepuesto, error) {
	var links []model.ProveedorRepuesto
	err := GetDB(ctx, r.db).Preload("Repuesto").
		Where("proveedor_id = ?", proveedorID).
		Order("created_at asc").
		Find(&links).Error
	return links, err
}

func (r *proveedorRepository) DeleteRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) error {
	res := GetDB(ctx, r.db).
		Where("proveedor_id = ? AND repuesto_id = ?", proveedorID, repuestoID).
		Delete(&model.ProveedorRepuesto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *proveedorRepository) DeleteRepuestosByProveedorID(ctx context.Context, proveedorID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("proveedor_id = ?", proveedorID).Delete(&model.ProveedorRepuesto{}).Error
}
