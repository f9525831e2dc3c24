package repository

import (
	"context"
	"time"

	"taller/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatisticsRepository interface {
	// Facturado sums invoice totals and counts invoices dated in [start, end].
	Facturado(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error)
	// Cobrado sums payments dated in [start, end].
	Cobrado(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	// SaldoPendiente sums the outstanding balance of every invoice.
	SaldoPendiente(ctx context.Context) (decimal.Decimal, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) Facturado(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	var total decimal.NullDecimal
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Factura{}).
		Select("COALESCE(SUM(monto_total), 0), COUNT(*)").
		Where("fecha >= ? AND fecha <= ?", start, end).
		Row().Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return total.Decimal.Round(2), count, nil
}

func (r *statisticsRepository) Cobrado(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Cobro{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("fecha >= ? AND fecha <= ?", start, end).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal.Round(2), nil
}

func (r *statisticsRepository) SaldoPendiente(ctx context.Context) (decimal.Decimal, error) {
	var facturado, cobrado decimal.NullDecimal
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Factura{}).Select("COALESCE(SUM(monto_total), 0)").Row().Scan(&facturado); err != nil {
		return decimal.Zero, err
	}
	if err := db.Model(&model.Cobro{}).Select("COALESCE(SUM(monto), 0)").Row().Scan(&cobrado); err != nil {
		return decimal.Zero, err
	}
	return facturado.Decimal.Sub(cobrado.Decimal).Round(2), nil
}
