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

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestClienteService(t *testing.T) {
	f := newFixture(t)
	svc := NewClienteService(repository.NewClienteRepository(f.db), repository.NewTransactionManager(f.db))

	ana, err := svc.Create(f.ctx, ClienteRequest{
		Nombre: " Ana ", Apellido: "Pérez", DNI: "30111222", Email: strPtr(" Ana@Mail.com "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", ana.Nombre)
	require.NotNil(t, ana.Email)
	assert.Equal(t, "ana@mail.com", *ana.Email)

	t.Run("duplicate dni", func(t *testing.T) {
		_, err := svc.Create(f.ctx, ClienteRequest{Nombre: "Otra", Apellido: "Persona", DNI: "30111222"})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := svc.Create(f.ctx, ClienteRequest{Nombre: "Otra", Apellido: "Persona", DNI: "1", Email: strPtr("ANA@mail.com")})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("blank email is stored as null", func(t *testing.T) {
		c, err := svc.Create(f.ctx, ClienteRequest{Nombre: "Beto", Apellido: "Ruiz", DNI: "2", Email: strPtr("  ")})
		require.NoError(t, err)
		assert.Nil(t, c.Email)
	})

	t.Run("update keeps own dni", func(t *testing.T) {
		c, err := svc.Update(f.ctx, ana.ID, ClienteRequest{Nombre: "Ana María", Apellido: "Pérez", DNI: "30111222"})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", c.Nombre)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := svc.Create(f.ctx, ClienteRequest{Nombre: "X", Apellido: " ", DNI: "3"})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("search", func(t *testing.T) {
		items, total, err := svc.List(f.ctx, pagination.New(1, 10, "MARÍA"))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, items, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(f.ctx, ana.ID))
		_, err := svc.Get(f.ctx, ana.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		assert.True(t, apperror.Is(svc.Delete(f.ctx, ana.ID), apperror.KindNotFound))
	})
}

func TestEquipoService(t *testing.T) {
	f := newFixture(t)
	tx := repository.NewTransactionManager(f.db)
	clienteRepo := repository.NewClienteRepository(f.db)
	svc := NewEquipoService(repository.NewEquipoRepository(f.db), clienteRepo, tx)

	cliente, err := NewClienteService(clienteRepo, tx).Create(f.ctx, ClienteRequest{Nombre: "Ana", Apellido: "Pérez", DNI: "1"})
	require.NoError(t, err)

	eq, err := svc.Create(f.ctx, EquipoRequest{ClienteID: cliente.ID, Tipo: "impresora", NumeroSerie: "HP-1"})
	require.NoError(t, err)
	assert.Equal(t, cliente.ID, eq.ClienteID)

	_, err = svc.Create(f.ctx, EquipoRequest{ClienteID: cliente.ID, Tipo: "impresora", NumeroSerie: "HP-1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.Create(f.ctx, EquipoRequest{ClienteID: uuid.New(), Tipo: "impresora", NumeroSerie: "HP-2"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	items, total, err := svc.List(f.ctx, pagination.New(1, 10, ""), cliente.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Cliente)
	assert.Equal(t, "Ana", items[0].Cliente.Nombre)
}

func TestTecnicoAndLookups(t *testing.T) {
	f := newFixture(t)
	tx := repository.NewTransactionManager(f.db)
	espRepo := repository.NewEspecializacionRepository(f.db)
	espSvc := NewEspecializacionService(espRepo, tx)
	tecSvc := NewTecnicoService(repository.NewTecnicoRepository(f.db), espRepo, tx)
	medioSvc := NewMedioCobroService(repository.NewMedioCobroRepository(f.db), tx)

	esp, err := espSvc.Create(f.ctx, NombreRequest{Nombre: "Impresoras"})
	require.NoError(t, err)
	_, err = espSvc.Create(f.ctx, NombreRequest{Nombre: "Impresoras"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	tec, err := tecSvc.Create(f.ctx, TecnicoRequest{Nombre: "Luis", Apellido: "Gómez", EspecializacionID: &esp.ID})
	require.NoError(t, err)
	require.NotNil(t, tec.Especializacion)
	assert.Equal(t, "Impresoras", tec.Especializacion.Nombre)

	missing := uuid.New()
	_, err = tecSvc.Create(f.ctx, TecnicoRequest{Nombre: "Sin", Apellido: "Esp", EspecializacionID: &missing})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	items, total, err := tecSvc.List(f.ctx, pagination.New(1, 10, ""), esp.ID.String())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	medio, err := medioSvc.Create(f.ctx, NombreRequest{Nombre: "Efectivo"})
	require.NoError(t, err)
	medio, err = medioSvc.Update(f.ctx, medio.ID, NombreRequest{Nombre: " Tarjeta "})
	require.NoError(t, err)
	assert.Equal(t, "Tarjeta", medio.Nombre)
}

func TestRepuestoService_StockInicialPasaPorElHistorial(t *testing.T) {
	f := newFixture(t)

	rep, err := f.repuestos.Create(f.ctx, uuid.Nil, CreateRepuestoRequest{Nombre: "Fan cooler", Stock: 8, CostoBase: dec("3.5")})
	require.NoError(t, err)
	assert.Equal(t, 8, rep.Stock)
	assert.Equal(t, 8, f.stockOf(t, rep.ID))

	var rows []model.HistorialStock
	require.NoError(t, f.db.Where("repuesto_id = ?", rep.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, model.MovAjuste, rows[0].TipoMov)
	assert.Equal(t, 0, rows[0].StockAnterior)
	assert.Equal(t, 8, rows[0].StockNuevo)

	t.Run("zero stock writes no movement", func(t *testing.T) {
		r, err := f.repuestos.Create(f.ctx, uuid.Nil, CreateRepuestoRequest{Nombre: "Tornillo"})
		require.NoError(t, err)
		assert.Equal(t, 0, r.Stock)
		assert.EqualValues(t, 1, f.countRows(t, &model.HistorialStock{}))
	})

	t.Run("duplicate nombre", func(t *testing.T) {
		_, err := f.repuestos.Create(f.ctx, uuid.Nil, CreateRepuestoRequest{Nombre: "Fan cooler", Stock: 1})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		assert.EqualValues(t, 1, f.countRows(t, &model.HistorialStock{}))
	})

	t.Run("update does not touch stock", func(t *testing.T) {
		r, err := f.repuestos.Update(f.ctx, rep.ID, UpdateRepuestoRequest{Nombre: "Fan cooler 80mm", CostoBase: dec("4")})
		require.NoError(t, err)
		assert.Equal(t, 8, r.Stock)
		assert.Equal(t, 8, f.stockOf(t, rep.ID))
	})

	t.Run("negative values", func(t *testing.T) {
		_, err := f.repuestos.Create(f.ctx, uuid.Nil, CreateRepuestoRequest{Nombre: "X", Stock: -1})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		_, err = f.repuestos.Update(f.ctx, rep.ID, UpdateRepuestoRequest{Nombre: "X", CostoBase: dec("-1")})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestProveedorService(t *testing.T) {
	f := newFixture(t)
	tx := repository.NewTransactionManager(f.db)
	svc := NewProveedorService(repository.NewProveedorRepository(f.db), f.repuestoRepo, tx)
	rep := f.seedRepuesto(t, "Fuente", 0)

	prov, err := svc.Create(f.ctx, ProveedorRequest{RazonSocial: "Repuestos SA", CUIT: "30-1"})
	require.NoError(t, err)
	assert.True(t, prov.Activo)

	_, err = svc.Create(f.ctx, ProveedorRequest{RazonSocial: "Otra SA", CUIT: "30-1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	inactivo, err := svc.Create(f.ctx, ProveedorRequest{RazonSocial: "Vieja SRL", CUIT: "30-2", Activo: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, inactivo.Activo)

	items, total, err := svc.List(f.ctx, pagination.New(1, 10, ""), "true")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, prov.ID, items[0].ID)

	t.Run("pivot upsert", func(t *testing.T) {
		link, err := svc.AddRepuesto(f.ctx, prov.ID, ProveedorRepuestoRequest{RepuestoID: rep.ID, Precio: dec("10")})
		require.NoError(t, err)
		assert.True(t, link.Activo)

		link2, err := svc.AddRepuesto(f.ctx, prov.ID, ProveedorRepuestoRequest{RepuestoID: rep.ID, Precio: dec("12.5"), Activo: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, link.ID, link2.ID)
		assert.Equal(t, "12.50", link2.Precio.StringFixed(2))
		assert.False(t, link2.Activo)

		links, err := svc.ListRepuestos(f.ctx, prov.ID)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("pivot unknown repuesto", func(t *testing.T) {
		_, err := svc.AddRepuesto(f.ctx, prov.ID, ProveedorRepuestoRequest{RepuestoID: uuid.New()})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("remove link", func(t *testing.T) {
		require.NoError(t, svc.RemoveRepuesto(f.ctx, prov.ID, rep.ID))
		assert.True(t, apperror.Is(svc.RemoveRepuesto(f.ctx, prov.ID, rep.ID), apperror.KindNotFound))
	})

	t.Run("delete removes links", func(t *testing.T) {
		_, err := svc.AddRepuesto(f.ctx, prov.ID, ProveedorRepuestoRequest{RepuestoID: rep.ID, Precio: dec("1")})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(f.ctx, prov.ID))
		assert.EqualValues(t, 0, f.countRows(t, &model.ProveedorRepuesto{}))
	})
}
