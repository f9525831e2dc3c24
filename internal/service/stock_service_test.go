package service

import (
	"testing"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertLedgerConsistent checks every movement of the part chains correctly
// and the last one matches the persisted stock.
func assertLedgerConsistent(t *testing.T, f *fixture, repuestoID uuid.UUID) {
	t.Helper()

	var rows []model.HistorialStock
	require.NoError(t, f.db.Where("repuesto_id = ?", repuestoID).Order("created_at asc").Find(&rows).Error)
	for i, row := range rows {
		assert.Equal(t, row.StockAnterior+row.Cantidad, row.StockNuevo, "row %d", i)
		if i > 0 {
			assert.Equal(t, rows[i-1].StockNuevo, row.StockAnterior, "row %d", i)
		}
	}
	if len(rows) > 0 {
		assert.Equal(t, rows[len(rows)-1].StockNuevo, f.stockOf(t, repuestoID))
	}
}

func TestRegistrarCompra_AppendsMovement(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Fuente 65W", 50)

	res, err := f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{
		RepuestoID:    rep.ID,
		Cantidad:      10,
		CostoUnitario: dec("12.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, f.stockOf(t, rep.ID))
	assert.Equal(t, model.MovCompra, res.Movimiento.TipoMov)
	assert.Equal(t, 50, res.Movimiento.StockAnterior)
	assert.Equal(t, 60, res.Movimiento.StockNuevo)
	assert.Equal(t, 10, res.Movimiento.Cantidad)

	origen, err := res.Movimiento.Origen()
	require.NoError(t, err)
	assert.Equal(t, model.OrigenCompra{CompraID: res.Compra.ID}, origen)

	assertLedgerConsistent(t, f, rep.ID)
	assert.Equal(t, []string{EventStockActualizado}, f.events.names())
	assert.EqualValues(t, 1, f.countRows(t, &model.AuditLog{}))
}

func TestRegistrarCompra_Rechazos(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Pasta térmica", 5)

	_, err := f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{RepuestoID: rep.ID, Cantidad: 0})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{RepuestoID: uuid.New(), Cantidad: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	prov := uuid.New()
	_, err = f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{ProveedorID: &prov, RepuestoID: rep.ID, Cantidad: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// failed purchases leave no compra nor movement behind
	assert.EqualValues(t, 0, f.countRows(t, &model.Compra{}))
	assert.EqualValues(t, 0, f.countRows(t, &model.HistorialStock{}))
	assert.Equal(t, 5, f.stockOf(t, rep.ID))
}

func TestAsignarRepuesto(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Pantalla 15.6", 3)
	reparacion := f.seedReparacion(t, model.EstadoEnProceso)

	res, err := f.stock.AsignarRepuesto(f.ctx, uuid.Nil, reparacion.ID, AsignarRepuestoRequest{RepuestoID: rep.ID, Cantidad: 2})
	require.NoError(t, err)
	assert.Equal(t, -2, res.Movimiento.Cantidad)
	assert.Equal(t, model.MovAsignacionRepuesto, res.Movimiento.TipoMov)
	assert.Equal(t, model.OrigenTipoReparacion, res.Movimiento.OrigenTipo)
	assert.Equal(t, res.Asignacion.ID, res.Movimiento.OrigenID)
	assert.Equal(t, 1, f.stockOf(t, rep.ID))

	items, err := f.stock.ListAsignaciones(f.ctx, reparacion.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Cantidad)

	assertLedgerConsistent(t, f, rep.ID)
}

func TestAsignarRepuesto_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Teclado", 1)
	reparacion := f.seedReparacion(t, model.EstadoEnProceso)

	_, err := f.stock.AsignarRepuesto(f.ctx, uuid.Nil, reparacion.ID, AsignarRepuestoRequest{RepuestoID: rep.ID, Cantidad: 2})
	require.Error(t, err)

	appErr := apperror.As(err)
	assert.Equal(t, apperror.KindInvalidState, appErr.Kind)
	assert.Equal(t, "stock insuficiente", appErr.Message)
	assert.Equal(t, 1, appErr.Details["stock_disponible"])

	// rollback: stock, ledger and the assignment row are untouched
	assert.Equal(t, 1, f.stockOf(t, rep.ID))
	assert.EqualValues(t, 0, f.countRows(t, &model.HistorialStock{}))
	assert.EqualValues(t, 0, f.countRows(t, &model.ReparacionRepuesto{}))
	assert.Empty(t, f.events.names())
}

func TestAsignarRepuesto_ReparacionInexistente(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Teclado", 4)

	_, err := f.stock.AsignarRepuesto(f.ctx, uuid.Nil, uuid.New(), AsignarRepuestoRequest{RepuestoID: rep.ID, Cantidad: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, 4, f.stockOf(t, rep.ID))
}

func TestAjustarStock(t *testing.T) {
	cases := []struct {
		tipo     string
		cantidad int
		want     int
	}{
		{"AJUSTE", -3, 7},
		{"AJUSTE", 4, 14},
		{"devolucion", 2, 12},
		{"VENTA", 2, 8},
		{"BAJA", 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.tipo, func(t *testing.T) {
			f := newFixture(t)
			rep := f.seedRepuesto(t, "Batería", 10)

			res, err := f.stock.AjustarStock(f.ctx, uuid.Nil, AjusteStockRequest{
				RepuestoID: rep.ID, Tipo: tc.tipo, Cantidad: tc.cantidad, Motivo: "conteo",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Movimiento.StockNuevo)
			assert.Equal(t, tc.want, f.stockOf(t, rep.ID))
			assert.Equal(t, res.Ajuste.Cantidad, res.Movimiento.Cantidad)
			assert.Equal(t, model.OrigenTipoAjuste, res.Movimiento.OrigenTipo)
			assertLedgerConsistent(t, f, rep.ID)
		})
	}
}

func TestAjustarStock_Rechazos(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Batería", 2)

	cases := []struct {
		name string
		req  AjusteStockRequest
		kind apperror.Kind
	}{
		{"ajuste cero", AjusteStockRequest{RepuestoID: rep.ID, Tipo: "AJUSTE", Cantidad: 0}, apperror.KindValidation},
		{"venta negativa", AjusteStockRequest{RepuestoID: rep.ID, Tipo: "VENTA", Cantidad: -1}, apperror.KindValidation},
		{"tipo compra", AjusteStockRequest{RepuestoID: rep.ID, Tipo: "COMPRA", Cantidad: 1}, apperror.KindValidation},
		{"baja excede stock", AjusteStockRequest{RepuestoID: rep.ID, Tipo: "BAJA", Cantidad: 3}, apperror.KindInvalidState},
		{"repuesto inexistente", AjusteStockRequest{RepuestoID: uuid.New(), Tipo: "AJUSTE", Cantidad: 1}, apperror.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.stock.AjustarStock(f.ctx, uuid.Nil, tc.req)
			assert.True(t, apperror.Is(err, tc.kind), "got %v", err)
		})
	}

	assert.Equal(t, 2, f.stockOf(t, rep.ID))
	assert.EqualValues(t, 0, f.countRows(t, &model.AjusteStock{}))
	assert.EqualValues(t, 0, f.countRows(t, &model.HistorialStock{}))
}

func TestApply_RequiresOrigen(t *testing.T) {
	f := newFixture(t)
	rep := f.seedRepuesto(t, "Cable", 1)

	_, err := f.stock.Apply(f.ctx, Movimiento{RepuestoID: rep.ID, Tipo: model.MovAjuste, Cantidad: 1})
	assert.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestListHistorial_Filters(t *testing.T) {
	f := newFixture(t)
	a := f.seedRepuesto(t, "Disco SSD", 0)
	b := f.seedRepuesto(t, "Memoria RAM", 0)

	_, err := f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{RepuestoID: a.ID, Cantidad: 5})
	require.NoError(t, err)
	_, err = f.stock.RegistrarCompra(f.ctx, uuid.Nil, CreateCompraRequest{RepuestoID: b.ID, Cantidad: 5})
	require.NoError(t, err)
	_, err = f.stock.AjustarStock(f.ctx, uuid.Nil, AjusteStockRequest{RepuestoID: a.ID, Tipo: "VENTA", Cantidad: 1})
	require.NoError(t, err)

	rows, total, err := f.stock.ListHistorial(f.ctx, repository.HistorialFilter{RepuestoID: &a.ID}, pagination.New(1, 10, ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = f.stock.ListHistorial(f.ctx, repository.HistorialFilter{TipoMov: model.MovCompra}, pagination.New(1, 10, ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, r := range rows {
		assert.Equal(t, model.MovCompra, r.TipoMov)
	}

	_, _, err = f.stock.ListHistorial(f.ctx, repository.HistorialFilter{TipoMov: "ROBO"}, pagination.New(1, 10, ""))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
