package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ReparacionHandler struct {
	reparacionService service.ReparacionService
	stockService      service.StockService
}

func NewReparacionHandler(reparacionService service.ReparacionService, stockService service.StockService) *ReparacionHandler {
	return &ReparacionHandler{reparacionService: reparacionService, stockService: stockService}
}

func (h *ReparacionHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	reparaciones := router.Group("/reparaciones", auth.Authenticate())
	{
		reparaciones.GET("", auth.RequirePermission(authz.ReparacionesVer), h.ListReparaciones)
		reparaciones.GET("/:id", auth.RequirePermission(authz.ReparacionesVer), h.GetReparacion)
		reparaciones.POST("", auth.RequirePermission(authz.ReparacionesGestionar), h.CreateReparacion)
		reparaciones.PUT("/:id", auth.RequirePermission(authz.ReparacionesGestionar), h.UpdateReparacion)
		reparaciones.DELETE("/:id", auth.RequirePermission(authz.ReparacionesGestionar), h.DeleteReparacion)

		reparaciones.GET("/:id/repuestos", auth.RequirePermission(authz.ReparacionesVer), h.ListRepuestos)
		reparaciones.POST("/:id/repuestos", auth.RequirePermission(authz.StockAjustar), h.AsignarRepuesto)
	}
}

// ListReparaciones
// @Summary      List repairs
// @Tags         reparaciones
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Items per page"
// @Param        search      query     string  false  "Texto en la descripción"
// @Param        estado      query     string  false  "Estado (case-insensitive)"
// @Param        equipo_id   query     string  false  "Filter by equipment"
// @Param        tecnico_id  query     string  false  "Filter by technician"
// @Success      200         {object}  response.Response{data=response.Page{items=[]model.Reparacion}}
// @Router       /reparaciones [get]
func (h *ReparacionHandler) ListReparaciones(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ReparacionFilter{
		Estado:    c.Query("estado"),
		EquipoID:  c.Query("equipo_id"),
		TecnicoID: c.Query("tecnico_id"),
	}
	items, total, err := h.reparacionService.List(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetReparacion
// @Summary      Get repair
// @Tags         reparaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reparacion ID"
// @Success      200  {object}  response.Response{data=model.Reparacion}
// @Failure      404  {object}  response.Response
// @Router       /reparaciones/{id} [get]
func (h *ReparacionHandler) GetReparacion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	reparacion, err := h.reparacionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reparacion)
}

// CreateReparacion
// @Summary      Create repair
// @Tags         reparaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ReparacionRequest  true  "Reparacion"
// @Success      201      {object}  response.Response{data=model.Reparacion}
// @Failure      404      {object}  response.Response  "Equipo or tecnico not found"
// @Failure      422      {object}  response.Response
// @Router       /reparaciones [post]
func (h *ReparacionHandler) CreateReparacion(c *gin.Context) {
	var req service.ReparacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reparacion, err := h.reparacionService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, reparacion)
}

// UpdateReparacion
// @Summary      Update repair
// @Description  An empty estado keeps the current one
// @Tags         reparaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Reparacion ID"
// @Param        payload  body      service.ReparacionRequest  true  "Reparacion"
// @Success      200      {object}  response.Response{data=model.Reparacion}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /reparaciones/{id} [put]
func (h *ReparacionHandler) UpdateReparacion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ReparacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reparacion, err := h.reparacionService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reparacion)
}

// DeleteReparacion
// @Summary      Delete repair
// @Tags         reparaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reparacion ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response  "Repair has related records"
// @Router       /reparaciones/{id} [delete]
func (h *ReparacionHandler) DeleteReparacion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.reparacionService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Reparación eliminada"})
}

// ListRepuestos
// @Summary      List parts used in a repair
// @Tags         reparaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reparacion ID"
// @Success      200  {object}  response.Response{data=[]model.ReparacionRepuesto}
// @Failure      404  {object}  response.Response
// @Router       /reparaciones/{id}/repuestos [get]
func (h *ReparacionHandler) ListRepuestos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.stockService.ListAsignaciones(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, items)
}

// AsignarRepuesto
// @Summary      Consume a part in a repair
// @Description  Decrements stock through the ledger (tipo ASIGNACION_REPUESTO). Fails when stock is insufficient.
// @Tags         reparaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Reparacion ID"
// @Param        payload  body      service.AsignarRepuestoRequest  true  "Repuesto y cantidad"
// @Success      201      {object}  response.Response{data=service.AsignacionResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response  "Insufficient stock"
// @Router       /reparaciones/{id}/repuestos [post]
func (h *ReparacionHandler) AsignarRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.AsignarRepuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.stockService.AsignarRepuesto(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, res)
}
