package repository

import (
	"context"

	"taller/internal/model"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CobroRepository interface {
	Create(ctx context.Context, cobro *model.Cobro) error
	CreateDetalle(ctx context.Context, detalle *model.DetalleCobro) error
	ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Cobro, error)
	List(ctx context.Context, p pagination.Params, facturaID *uuid.UUID) ([]model.Cobro, int64, error)
	// SumByFactura returns the total collected for an invoice, 0 when none.
	SumByFactura(ctx context.Context, facturaID uuid.UUID) (decimal.Decimal, error)
}

type cobroRepository struct {
	db *gorm.DB
}

func NewCobroRepository(db *gorm.DB) CobroRepository {
	return &cobroRepository{db: db}
}

func (r *cobroRepository) Create(ctx context.Context, cobro *model.Cobro) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(cobro).Error
}

func (r *cobroRepository) CreateDetalle(ctx context.Context, detalle *model.DetalleCobro) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(detalle).Error
}

func (r *cobroRepository) ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Cobro, error) {
	var cobros []model.Cobro
	err := GetDB(ctx, r.db).Preload("Detalles.MedioCobro").
		Where("factura_id = ?", facturaID).
		Order("fecha asc, created_at asc").
		Find(&cobros).Error
	return cobros, err
}

func (r *cobroRepository) List(ctx context.Context, p pagination.Params, facturaID *uuid.UUID) ([]model.Cobro, int64, error) {
	var cobros []model.Cobro
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Cobro{})
	if facturaID != nil {
		db = db.Where("factura_id = ?", *facturaID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Detalles.MedioCobro").Order("fecha desc").Offset(p.Offset).Limit(p.Limit).Find(&cobros).Error; err != nil {
		return nil, 0, err
	}
	return cobros, total, nil
}

func (r *cobroRepository) SumByFactura(ctx context.Context, facturaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Cobro{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("factura_id = ?", facturaID).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal.Round(2), nil
}
