package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ClienteHandler struct {
	clienteService service.ClienteService
	equipoService  service.EquipoService
}

// NewClienteHandler serves customers and the equipment they bring in
func NewClienteHandler(clienteService service.ClienteService, equipoService service.EquipoService) *ClienteHandler {
	return &ClienteHandler{clienteService: clienteService, equipoService: equipoService}
}

func (h *ClienteHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	clientes := router.Group("/clientes", auth.Authenticate())
	{
		clientes.GET("", auth.RequirePermission(authz.ClientesVer), h.ListClientes)
		clientes.GET("/:id", auth.RequirePermission(authz.ClientesVer), h.GetCliente)
		clientes.POST("", auth.RequirePermission(authz.ClientesGestionar), h.CreateCliente)
		clientes.PUT("/:id", auth.RequirePermission(authz.ClientesGestionar), h.UpdateCliente)
		clientes.DELETE("/:id", auth.RequirePermission(authz.ClientesGestionar), h.DeleteCliente)
	}

	equipos := router.Group("/equipos", auth.Authenticate())
	{
		equipos.GET("", auth.RequirePermission(authz.EquiposVer), h.ListEquipos)
		equipos.GET("/:id", auth.RequirePermission(authz.EquiposVer), h.GetEquipo)
		equipos.POST("", auth.RequirePermission(authz.EquiposGestionar), h.CreateEquipo)
		equipos.PUT("/:id", auth.RequirePermission(authz.EquiposGestionar), h.UpdateEquipo)
		equipos.DELETE("/:id", auth.RequirePermission(authz.EquiposGestionar), h.DeleteEquipo)
	}
}

// ListClientes
// @Summary      List customers
// @Description  Search matches nombre, apellido, dni and email, case-insensitively
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Texto a buscar"
// @Success      200     {object}  response.Response{data=response.Page{items=[]model.Cliente}}
// @Router       /clientes [get]
func (h *ClienteHandler) ListClientes(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.clienteService.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetCliente
// @Summary      Get customer
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cliente ID"
// @Success      200  {object}  response.Response{data=model.Cliente}
// @Failure      404  {object}  response.Response
// @Router       /clientes/{id} [get]
func (h *ClienteHandler) GetCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cliente, err := h.clienteService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cliente)
}

// CreateCliente
// @Summary      Create customer
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ClienteRequest  true  "Cliente"
// @Success      201      {object}  response.Response{data=model.Cliente}
// @Failure      422      {object}  response.Response  "Validation error or duplicated dni/email"
// @Router       /clientes [post]
func (h *ClienteHandler) CreateCliente(c *gin.Context) {
	var req service.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.clienteService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, cliente)
}

// UpdateCliente
// @Summary      Update customer
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Cliente ID"
// @Param        payload  body      service.ClienteRequest  true  "Cliente"
// @Success      200      {object}  response.Response{data=model.Cliente}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /clientes/{id} [put]
func (h *ClienteHandler) UpdateCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.clienteService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cliente)
}

// DeleteCliente
// @Summary      Delete customer
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Cliente ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response  "Customer has related equipment"
// @Router       /clientes/{id} [delete]
func (h *ClienteHandler) DeleteCliente(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.clienteService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Cliente eliminado"})
}

// ListEquipos
// @Summary      List equipment
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Items per page"
// @Param        search      query     string  false  "Texto a buscar"
// @Param        cliente_id  query     string  false  "Filter by owner"
// @Success      200         {object}  response.Response{data=response.Page{items=[]model.Equipo}}
// @Router       /equipos [get]
func (h *ClienteHandler) ListEquipos(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.equipoService.List(c.Request.Context(), p, c.Query("cliente_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetEquipo
// @Summary      Get equipment
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Equipo ID"
// @Success      200  {object}  response.Response{data=model.Equipo}
// @Failure      404  {object}  response.Response
// @Router       /equipos/{id} [get]
func (h *ClienteHandler) GetEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	equipo, err := h.equipoService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, equipo)
}

// CreateEquipo
// @Summary      Create equipment
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.EquipoRequest  true  "Equipo"
// @Success      201      {object}  response.Response{data=model.Equipo}
// @Failure      404      {object}  response.Response  "Cliente not found"
// @Failure      422      {object}  response.Response
// @Router       /equipos [post]
func (h *ClienteHandler) CreateEquipo(c *gin.Context) {
	var req service.EquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	equipo, err := h.equipoService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, equipo)
}

// UpdateEquipo
// @Summary      Update equipment
// @Tags         equipos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Equipo ID"
// @Param        payload  body      service.EquipoRequest  true  "Equipo"
// @Success      200      {object}  response.Response{data=model.Equipo}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /equipos/{id} [put]
func (h *ClienteHandler) UpdateEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.EquipoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	equipo, err := h.equipoService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, equipo)
}

// DeleteEquipo
// @Summary      Delete equipment
// @Tags         equipos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Equipo ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /equipos/{id} [delete]
func (h *ClienteHandler) DeleteEquipo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.equipoService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Equipo eliminado"})
}
