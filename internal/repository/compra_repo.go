package repository

import (
	"context"

	"taller/internal/model"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompraRepository interface {
	Create(ctx context.Context, compra *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, p pagination.Params) ([]model.Compra, int64, error)
}

type compraRepository struct {
	db *gorm.DB
}

func NewCompraRepository(db *gorm.DB) CompraRepository {
	return &compraRepository{db: db}
}

func (r *compraRepository) Create(ctx context.Context, compra *model.Compra) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(compra).Error
}

func (r *compraRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var compra model.Compra
	if err := GetDB(ctx, r.db).Preload("Proveedor").Preload("Repuesto").First(&compra, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &compra, nil
}

func (r *compraRepository) List(ctx context.Context, p pagination.Params) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Compra{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Preload("Proveedor").Preload("Repuesto").Order("fecha desc").Offset(p.Offset).Limit(p.Limit).Find(&compras).Error; err != nil {
		return nil, 0, err
	}
	return compras, total, nil
}
