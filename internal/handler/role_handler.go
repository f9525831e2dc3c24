package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	router.GET("/roles", auth.Authenticate(), auth.RequirePermission(authz.UsuariosGestionar), h.ListRoles)
}

// ListRoles
// @Summary      List roles
// @Description  Returns every user type with the permissions it resolves to
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	respondOK(c, h.roleService.ListRoles())
}
