// Package authz derives permissions from user roles and issues access tokens.
package authz

import (
	"sort"

	"taller/internal/model"
)

// Permission is a "<recurso>.<accion>" code checked by the router.
type Permission string

const (
	ClientesVer                Permission = "clientes.ver"
	ClientesGestionar          Permission = "clientes.gestionar"
	EquiposVer                 Permission = "equipos.ver"
	EquiposGestionar           Permission = "equipos.gestionar"
	TecnicosVer                Permission = "tecnicos.ver"
	TecnicosGestionar          Permission = "tecnicos.gestionar"
	EspecializacionesVer       Permission = "especializaciones.ver"
	EspecializacionesGestionar Permission = "especializaciones.gestionar"
	RepuestosVer               Permission = "repuestos.ver"
	RepuestosGestionar         Permission = "repuestos.gestionar"
	ProveedoresVer             Permission = "proveedores.ver"
	ProveedoresGestionar       Permission = "proveedores.gestionar"
	MediosCobroVer             Permission = "medios_cobro.ver"
	MediosCobroGestionar       Permission = "medios_cobro.gestionar"
	ReparacionesVer            Permission = "reparaciones.ver"
	ReparacionesGestionar      Permission = "reparaciones.gestionar"
	PresupuestosVer            Permission = "presupuestos.ver"
	PresupuestosGestionar      Permission = "presupuestos.gestionar"
	FacturasVer                Permission = "facturas.ver"
	FacturasGestionar          Permission = "facturas.gestionar"
	CobrosVer                  Permission = "cobros.ver"
	CobrosGestionar            Permission = "cobros.gestionar"
	ComprasGestionar           Permission = "compras.gestionar"
	StockVer                   Permission = "stock.ver"
	StockAjustar               Permission = "stock.ajustar"
	UsuariosGestionar          Permission = "usuarios.gestionar"
	AuditoriaVer               Permission = "auditoria.ver"
	EstadisticasVer            Permission = "estadisticas.ver"
)

// All lists every permission known to the system.
var All = []Permission{
	ClientesVer, ClientesGestionar,
	EquiposVer, EquiposGestionar,
	TecnicosVer, TecnicosGestionar,
	EspecializacionesVer, EspecializacionesGestionar,
	RepuestosVer, RepuestosGestionar,
	ProveedoresVer, ProveedoresGestionar,
	MediosCobroVer, MediosCobroGestionar,
	ReparacionesVer, ReparacionesGestionar,
	PresupuestosVer, PresupuestosGestionar,
	FacturasVer, FacturasGestionar,
	CobrosVer, CobrosGestionar,
	ComprasGestionar,
	StockVer, StockAjustar,
	UsuariosGestionar,
	AuditoriaVer,
	EstadisticasVer,
}

// Set is an unordered collection of permissions.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the codes in lexical order, used by /api/me and /api/roles.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Resolver maps a role name to its permissions. Unknown roles get an empty set.
type Resolver func(role string) Set

// NewResolver freezes table into a Resolver. The administrador role always
// resolves to every permission regardless of its entry in table.
func NewResolver(table map[string][]Permission) Resolver {
	frozen := make(map[string]Set, len(table)+1)
	for role, perms := range table {
		frozen[role] = NewSet(perms...)
	}
	frozen[model.TipoAdministrador] = NewSet(All...)

	return func(role string) Set {
		src, ok := frozen[role]
		if !ok {
			return Set{}
		}
		cp := make(Set, len(src))
		for p := range src {
			cp[p] = struct{}{}
		}
		return cp
	}
}

// Allows reports whether role holds every one of perms.
func (r Resolver) Allows(role string, perms ...Permission) bool {
	set := r(role)
	for _, p := range perms {
		if !set.Has(p) {
			return false
		}
	}
	return true
}

// DefaultTable is the role table the server starts with.
func DefaultTable() map[string][]Permission {
	return map[string][]Permission{
		model.TipoTecnico: {
			ClientesVer,
			EquiposVer, EquiposGestionar,
			ReparacionesVer, ReparacionesGestionar,
			PresupuestosVer,
			RepuestosVer,
			StockVer,
			EspecializacionesVer,
			TecnicosVer,
		},
		model.TipoUsuario: {
			ClientesVer, ClientesGestionar,
			EquiposVer, EquiposGestionar,
			ReparacionesVer,
			PresupuestosVer, PresupuestosGestionar,
			FacturasVer, FacturasGestionar,
			CobrosVer, CobrosGestionar,
			MediosCobroVer,
			RepuestosVer,
			TecnicosVer,
			EstadisticasVer,
		},
	}
}
