package service

import (
	"taller/internal/authz"
	"taller/internal/model"
)

type RoleResponse struct {
	Nombre   string   `json:"nombre"`
	Permisos []string `json:"permisos"`
}

// RoleService exposes the fixed role table. Roles are not editable at runtime.
type RoleService interface {
	ListRoles() []RoleResponse
}

type roleService struct {
	resolver authz.Resolver
}

func NewRoleService(resolver authz.Resolver) RoleService {
	return &roleService{resolver: resolver}
}

func (s *roleService) ListRoles() []RoleResponse {
	roles := []string{model.TipoAdministrador, model.TipoTecnico, model.TipoUsuario}
	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, RoleResponse{Nombre: r, Permisos: s.resolver(r).Sorted()})
	}
	return res
}
