package authz

import (
	"testing"

	"taller/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestResolver_AdministradorHasEverything(t *testing.T) {
	resolve := NewResolver(DefaultTable())

	set := resolve(model.TipoAdministrador)
	assert.Len(t, set, len(All))
	for _, p := range All {
		assert.True(t, set.Has(p), string(p))
	}
}

func TestResolver_AdministradorIgnoresTableEntry(t *testing.T) {
	resolve := NewResolver(map[string][]Permission{
		model.TipoAdministrador: {ClientesVer},
	})
	assert.True(t, resolve.Allows(model.TipoAdministrador, UsuariosGestionar, AuditoriaVer))
}

func TestResolver_UnknownRoleHasNothing(t *testing.T) {
	resolve := NewResolver(DefaultTable())

	assert.Empty(t, resolve("invitado"))
	assert.Empty(t, resolve(""))
	assert.False(t, resolve.Allows("invitado", ClientesVer))
}

func TestResolver_Tecnico(t *testing.T) {
	resolve := NewResolver(DefaultTable())

	assert.True(t, resolve.Allows(model.TipoTecnico, ReparacionesGestionar, StockVer))
	assert.False(t, resolve.Allows(model.TipoTecnico, FacturasGestionar))
	assert.False(t, resolve.Allows(model.TipoTecnico, UsuariosGestionar))
}

func TestResolver_Usuario(t *testing.T) {
	resolve := NewResolver(DefaultTable())

	assert.True(t, resolve.Allows(model.TipoUsuario, FacturasGestionar, CobrosGestionar))
	assert.False(t, resolve.Allows(model.TipoUsuario, StockAjustar))
	assert.False(t, resolve.Allows(model.TipoUsuario, AuditoriaVer))
}

func TestResolver_ReturnsCopies(t *testing.T) {
	resolve := NewResolver(DefaultTable())

	set := resolve(model.TipoTecnico)
	set[UsuariosGestionar] = struct{}{}

	assert.False(t, resolve.Allows(model.TipoTecnico, UsuariosGestionar))
}

func TestResolver_TableMutationAfterBuild(t *testing.T) {
	table := DefaultTable()
	resolve := NewResolver(table)
	table[model.TipoTecnico] = append(table[model.TipoTecnico], FacturasGestionar)

	assert.False(t, resolve.Allows(model.TipoTecnico, FacturasGestionar))
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet(StockVer, ClientesVer, FacturasVer)
	assert.Equal(t, []string{"clientes.ver", "facturas.ver", "stock.ver"}, s.Sorted())
}
