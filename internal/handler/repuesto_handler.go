package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type RepuestoHandler struct {
	repuestoService service.RepuestoService
}

func NewRepuestoHandler(repuestoService service.RepuestoService) *RepuestoHandler {
	return &RepuestoHandler{repuestoService: repuestoService}
}

func (h *RepuestoHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	repuestos := router.Group("/repuestos", auth.Authenticate())
	{
		repuestos.GET("", auth.RequirePermission(authz.RepuestosVer), h.ListRepuestos)
		repuestos.GET("/:id", auth.RequirePermission(authz.RepuestosVer), h.GetRepuesto)
		repuestos.POST("", auth.RequirePermission(authz.RepuestosGestionar), h.CreateRepuesto)
		repuestos.PUT("/:id", auth.RequirePermission(authz.RepuestosGestionar), h.UpdateRepuesto)
		repuestos.DELETE("/:id", auth.RequirePermission(authz.RepuestosGestionar), h.DeleteRepuesto)
	}
}

// ListRepuestos
// @Summary      List spare parts
// @Tags         repuestos
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Filtro por nombre"
// @Success      200     {object}  response.Response{data=response.Page{items=[]model.Repuesto}}
// @Router       /repuestos [get]
func (h *RepuestoHandler) ListRepuestos(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.repuestoService.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetRepuesto
// @Summary      Get spare part
// @Tags         repuestos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Repuesto ID"
// @Success      200  {object}  response.Response{data=model.Repuesto}
// @Failure      404  {object}  response.Response
// @Router       /repuestos/{id} [get]
func (h *RepuestoHandler) GetRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	repuesto, err := h.repuestoService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, repuesto)
}

// CreateRepuesto
// @Summary      Create spare part
// @Description  A non-zero initial stock is recorded as an AJUSTE ledger movement
// @Tags         repuestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRepuestoRequest  true  "Repuesto"
// @Success      201      {object}  response.Response{data=model.Repuesto}
// @Failure      422      {object}  response.Response
// @Router       /repuestos [post]
func (h *RepuestoHandler) CreateRepuesto(c *gin.Context) {
	var req service.CreateRepuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	repuesto, err := h.repuestoService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, repuesto)
}

// UpdateRepuesto
// @Summary      Update spare part
// @Description  Stock is not editable here; use compras, ajustes or repair assignments
// @Tags         repuestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Repuesto ID"
// @Param        payload  body      service.UpdateRepuestoRequest  true  "Repuesto"
// @Success      200      {object}  response.Response{data=model.Repuesto}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /repuestos/{id} [put]
func (h *RepuestoHandler) UpdateRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRepuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	repuesto, err := h.repuestoService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, repuesto)
}

// DeleteRepuesto
// @Summary      Delete spare part
// @Tags         repuestos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Repuesto ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response  "Part has ledger history"
// @Router       /repuestos/{id} [delete]
func (h *RepuestoHandler) DeleteRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.repuestoService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Repuesto eliminado"})
}
