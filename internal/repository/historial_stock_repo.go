package repository

import (
	"context"
	"time"

	"taller/internal/model"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistorialFilter narrows the stock ledger listing. Zero values mean no filter.
type HistorialFilter struct {
	RepuestoID *uuid.UUID
	TipoMov    model.TipoMovimiento
	Desde      *time.Time
	Hasta      *time.Time
}

type HistorialStockRepository interface {
	Create(ctx context.Context, h *model.HistorialStock) error
	List(ctx context.Context, filter HistorialFilter, p pagination.Params) ([]model.HistorialStock, int64, error)
	CreateAjuste(ctx context.Context, a *model.AjusteStock) error
}

type historialStockRepository struct {
	db *gorm.DB
}

func NewHistorialStockRepository(db *gorm.DB) HistorialStockRepository {
	return &historialStockRepository{db: db}
}

func (r *historialStockRepository) Create(ctx context.Context, h *model.HistorialStock) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(h).Error
}

func (r *historialStockRepository) CreateAjuste(ctx context.Context, a *model.AjusteStock) error {
	return GetDB(ctx, r.db).Create(a).Error
}

func (r *historialStockRepository) List(ctx context.Context, filter HistorialFilter, p pagination.Params) ([]model.HistorialStock, int64, error) {
	var rows []model.HistorialStock
	var total int64

	db := GetDB(ctx, r.db).Model(&model.HistorialStock{})
	if filter.RepuestoID != nil {
		db = db.Where("repuesto_id = ?", *filter.RepuestoID)
	}
	if filter.TipoMov != "" {
		db = db.Where("tipo_mov = ?", filter.TipoMov)
	}
	if filter.Desde != nil {
		db = db.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		db = db.Where("created_at <= ?", *filter.Hasta)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Repuesto").Order("created_at desc").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
