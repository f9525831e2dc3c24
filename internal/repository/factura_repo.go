package repository

import (
	"context"

	"taller/internal/model"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FacturaRepository interface {
	Create(ctx context.Context, factura *model.Factura) error
	Update(ctx context.Context, factura *model.Factura) error
	// DeleteCascade removes the invoice with its payments and their details.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindByIDWithCobros(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Factura, error)
	// FindByPresupuestoID returns the invoice for a budget other than excludeID.
	FindByPresupuestoID(ctx context.Context, presupuestoID, excludeID uuid.UUID) (*model.Factura, error)
	ExistsNumero(ctx context.Context, numero string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, p pagination.Params) ([]model.Factura, int64, error)
}

type facturaRepository struct {
	db *gorm.DB
}

func NewFacturaRepository(db *gorm.DB) FacturaRepository {
	return &facturaRepository{db: db}
}

func (r *facturaRepository) Create(ctx context.Context, factura *model.Factura) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(factura).Error
}

func (r *facturaRepository) Update(ctx context.Context, factura *model.Factura) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(factura).Error
}

func (r *facturaRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	cobroIDs := db.Model(&model.Cobro{}).Select("id").Where("factura_id = ?", id)
	if err := db.Where("cobro_id IN (?)", cobroIDs).Delete(&model.DetalleCobro{}).Error; err != nil {
		return err
	}
	if err := db.Where("factura_id = ?", id).Delete(&model.Cobro{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Factura{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *facturaRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var factura model.Factura
	if err := GetDB(ctx, r.db).First(&factura, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &factura, nil
}

func (r *facturaRepository) FindByIDWithCobros(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var factura model.Factura
	err := GetDB(ctx, r.db).
		Preload("Cobros", func(db *gorm.DB) *gorm.DB { return db.Order("fecha asc, created_at asc") }).
		Preload("Cobros.Detalles.MedioCobro").
		First(&factura, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &factura, nil
}

// FindByIDForUpdate locks the invoice row so concurrent payments serialize.
func (r *facturaRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	var factura model.Factura
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&factura).Error; err != nil {
		return nil, err
	}
	return &factura, nil
}

func (r *facturaRepository) FindByPresupuestoID(ctx context.Context, presupuestoID, excludeID uuid.UUID) (*model.Factura, error) {
	var factura model.Factura
	db := GetDB(ctx, r.db).Where("presupuesto_id = ?", presupuestoID)
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.First(&factura).Error; err != nil {
		return nil, err
	}
	return &factura, nil
}

func (r *facturaRepository) ExistsNumero(ctx context.Context, numero string, excludeID uuid.UUID) (bool, error) {
	var count int64
	db := GetDB(ctx, r.db).Model(&model.Factura{}).Where("numero = ?", numero)
	if excludeID != uuid.Nil {
		db = db.Where("id <> ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *facturaRepository) List(ctx context.Context, p pagination.Params) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	db := SearchScope(p, "numero", "letra", "detalle")(GetDB(ctx, r.db).Model(&model.Factura{}))
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("fecha desc").Offset(p.Offset).Limit(p.Limit).Find(&facturas).Error; err != nil {
		return nil, 0, err
	}
	return facturas, total, nil
}
