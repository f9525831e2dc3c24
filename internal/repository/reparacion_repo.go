package repository

import (
	"context"
	"errors"

	"taller/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReparacionRepository interface {
	CatalogRepository[model.Reparacion]
	CreateAsignacion(ctx context.Context, a *model.ReparacionRepuesto) error
	ListAsignaciones(ctx context.Context, reparacionID uuid.UUID) ([]model.ReparacionRepuesto, error)
	CountByEstado(ctx context.Context) ([]model.EstadoCantidad, error)
}

type reparacionRepository struct {
	CatalogRepository[model.Reparacion]
	db *gorm.DB
}

func NewReparacionRepository(db *gorm.DB) ReparacionRepository {
	return &reparacionRepository{
		CatalogRepository: NewCatalogRepository[model.Reparacion](db, []string{"descripcion", "estado"}, "Equipo", "Tecnico"),
		db:                db,
	}
}

func (r *reparacionRepository) CreateAsignacion(ctx context.Context, a *model.ReparacionRepuesto) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(a).Error
}

func (r *reparacionRepository) ListAsignaciones(ctx context.Context, reparacionID uuid.UUID) ([]model.ReparacionRepuesto, error) {
	var items []model.ReparacionRepuesto
	err := GetDB(ctx, r.db).Preload("Repuesto").
		Where("reparacion_id = ?", reparacionID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// CountByEstado groups repairs by their trimmed, lower-cased state.
func (r *reparacionRepository) CountByEstado(ctx context.Context) ([]model.EstadoCantidad, error) {
	var rows []model.EstadoCantidad
	err := GetDB(ctx, r.db).Model(&model.Reparacion{}).
		Select("LOWER(TRIM(estado)) AS estado, COUNT(*) AS cantidad").
		Group("LOWER(TRIM(estado))").
		Order("estado asc").
		Scan(&rows).Error
	return rows, err
}

type PresupuestoRepository interface {
	CatalogRepository[model.Presupuesto]
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Presupuesto, error)
}

type presupuestoRepository struct {
	CatalogRepository[model.Presupuesto]
	db *gorm.DB
}

func NewPresupuestoRepository(db *gorm.DB) PresupuestoRepository {
	return &presupuestoRepository{
		CatalogRepository: NewCatalogRepository[model.Presupuesto](db, nil, "Reparacion"),
		db:                db,
	}
}

// FindByIDForUpdate locks the budget row so two invoices for it cannot be
// created side by side. The repair is loaded without a lock.
func (r *presupuestoRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Presupuesto, error) {
	var presupuesto model.Presupuesto
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&presupuesto).Error; err != nil {
		return nil, err
	}

	var reparacion model.Reparacion
	err := GetDB(ctx, r.db).Where("id = ?", presupuesto.ReparacionID).First(&reparacion).Error
	switch {
	case err == nil:
		presupuesto.Reparacion = &reparacion
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return &presupuesto, nil
}
