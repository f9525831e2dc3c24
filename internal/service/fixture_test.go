package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type publishedEvent struct {
	Name string
	Data any
}

// recordingPublisher captures events instead of broadcasting them.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Name: event, Data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	events *recordingPublisher

	repuestoRepo  repository.RepuestoRepository
	historialRepo repository.HistorialStockRepository

	audit       AuditService
	stock       StockService
	facturacion FacturacionService
	presupuesto PresupuestoService
	repuestos   RepuestoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	logger := zaptest.NewLogger(t)
	tx := repository.NewTransactionManager(db)
	events := &recordingPublisher{}

	repuestoRepo := repository.NewRepuestoRepository(db)
	historialRepo := repository.NewHistorialStockRepository(db)
	reparacionRepo := repository.NewReparacionRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	presupuestoRepo := repository.NewPresupuestoRepository(db)

	audit := NewAuditService(repository.NewAuditRepository(db))
	stock := NewStockService(
		repuestoRepo,
		historialRepo,
		repository.NewCompraRepository(db),
		reparacionRepo,
		repository.NewProveedorRepository(db),
		audit, tx, events, logger,
	)

	return &fixture{
		ctx:           context.Background(),
		db:            db,
		events:        events,
		repuestoRepo:  repuestoRepo,
		historialRepo: historialRepo,
		audit:         audit,
		stock:         stock,
		facturacion: NewFacturacionService(
			facturaRepo,
			repository.NewCobroRepository(db),
			presupuestoRepo,
			repository.NewMedioCobroRepository(db),
			audit, tx, events, logger,
		),
		presupuesto: NewPresupuestoService(presupuestoRepo, reparacionRepo, facturaRepo, audit, tx),
		repuestos:   NewRepuestoService(repuestoRepo, stock, tx),
	}
}

// seedReparacion inserts a client, equipment, technician and a repair in estado.
func (f *fixture) seedReparacion(t *testing.T, estado string) *model.Reparacion {
	t.Helper()

	cliente := &model.Cliente{Nombre: "Ana", Apellido: "Pérez", DNI: uuid.NewString()[:18]}
	require.NoError(t, f.db.Create(cliente).Error)
	equipo := &model.Equipo{ClienteID: cliente.ID, Tipo: "notebook", NumeroSerie: "SN-" + cliente.ID.String()}
	require.NoError(t, f.db.Create(equipo).Error)
	tecnico := &model.Tecnico{Nombre: "Luis", Apellido: "Gómez"}
	require.NoError(t, f.db.Create(tecnico).Error)

	rep := &model.Reparacion{
		EquipoID:    equipo.ID,
		TecnicoID:   tecnico.ID,
		Descripcion: "no enciende",
		Fecha:       time.Now().UTC(),
		Estado:      estado,
	}
	require.NoError(t, f.db.Create(rep).Error)
	return rep
}

func (f *fixture) seedPresupuesto(t *testing.T, estado string, aceptado bool) *model.Presupuesto {
	t.Helper()

	rep := f.seedReparacion(t, estado)
	monto := decimal.NewFromInt(1000)
	p := &model.Presupuesto{ReparacionID: rep.ID, Fecha: time.Now().UTC(), MontoTotal: &monto, Aceptado: aceptado}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) seedMedio(t *testing.T, nombre string) *model.MedioCobro {
	t.Helper()

	m := &model.MedioCobro{Nombre: nombre}
	require.NoError(t, f.db.Create(m).Error)
	return m
}

func (f *fixture) seedRepuesto(t *testing.T, nombre string, stock int) *model.Repuesto {
	t.Helper()

	r := &model.Repuesto{Nombre: nombre, Stock: stock, CostoBase: decimal.NewFromInt(10)}
	require.NoError(t, f.db.Create(r).Error)
	return r
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	var r model.Repuesto
	require.NoError(t, f.db.First(&r, "id = ?", id).Error)
	return r.Stock
}

func (f *fixture) countRows(t *testing.T, m any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
