package service

import (
	"testing"
	"time"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsService(t *testing.T) {
	f := newFixture(t)
	svc := NewStatisticsService(
		repository.NewStatisticsRepository(f.db),
		repository.NewReparacionRepository(f.db),
		f.repuestoRepo,
	)

	pres := f.seedPresupuesto(t, model.EstadoFinalizada, true)
	f.seedReparacion(t, " Pendiente")
	f.seedReparacion(t, model.EstadoPendiente)
	f.seedRepuesto(t, "Agotado", 0)
	f.seedRepuesto(t, "Disponible", 3)
	medio := f.seedMedio(t, "efectivo")

	factura, err := f.facturacion.CreateFactura(f.ctx, uuid.Nil, facturaReq(pres.ID, "0001-00000001"))
	require.NoError(t, err)
	_, err = f.facturacion.RegistrarCobro(f.ctx, uuid.Nil, CreateCobroRequest{FacturaID: factura.ID, Monto: dec("250.25"), MedioCobroID: medio.ID})
	require.NoError(t, err)

	stats, err := svc.GetStatistics(f.ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "1000.00", stats.TotalFacturado.StringFixed(2))
	assert.Equal(t, "250.25", stats.TotalCobrado.StringFixed(2))
	assert.Equal(t, "749.75", stats.SaldoPendiente.StringFixed(2))
	assert.EqualValues(t, 1, stats.CantidadFacturas)
	assert.EqualValues(t, 1, stats.RepuestosSinStock)
	assert.Equal(t, 1, stats.TimeRangeStartDate.Day())
	assert.Equal(t, []model.EstadoCantidad{
		{Estado: model.EstadoFinalizada, Cantidad: 1},
		{Estado: model.EstadoPendiente, Cantidad: 2},
	}, stats.ReparacionesPorEstado)

	t.Run("range without invoices", func(t *testing.T) {
		desde := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		stats, err := svc.GetStatistics(f.ctx, desde, desde.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.True(t, stats.TotalFacturado.IsZero())
		assert.EqualValues(t, 0, stats.CantidadFacturas)
		// outstanding balance is not bounded by the range
		assert.Equal(t, "749.75", stats.SaldoPendiente.StringFixed(2))
	})

	t.Run("inverted range", func(t *testing.T) {
		now := time.Now().UTC()
		_, err := svc.GetStatistics(f.ctx, now, now.AddDate(0, 0, -1))
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}
