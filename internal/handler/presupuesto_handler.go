package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type PresupuestoHandler struct {
	presupuestoService service.PresupuestoService
}

func NewPresupuestoHandler(presupuestoService service.PresupuestoService) *PresupuestoHandler {
	return &PresupuestoHandler{presupuestoService: presupuestoService}
}

func (h *PresupuestoHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	presupuestos := router.Group("/presupuestos", auth.Authenticate())
	{
		presupuestos.GET("", auth.RequirePermission(authz.PresupuestosVer), h.ListPresupuestos)
		presupuestos.GET("/:id", auth.RequirePermission(authz.PresupuestosVer), h.GetPresupuesto)
		presupuestos.POST("", auth.RequirePermission(authz.PresupuestosGestionar), h.CreatePresupuesto)
		presupuestos.PUT("/:id", auth.RequirePermission(authz.PresupuestosGestionar), h.UpdatePresupuesto)
		presupuestos.DELETE("/:id", auth.RequirePermission(authz.PresupuestosGestionar), h.DeletePresupuesto)
		presupuestos.PATCH("/:id/aceptar", auth.RequirePermission(authz.PresupuestosGestionar), h.AceptarPresupuesto)
	}
}

// ListPresupuestos
// @Summary      List budgets
// @Tags         presupuestos
// @Produce      json
// @Security     BearerAuth
// @Param        page           query     int     false  "Page number"
// @Param        limit          query     int     false  "Items per page"
// @Param        reparacion_id  query     string  false  "Filter by repair"
// @Param        aceptado       query     bool    false  "Filter by accepted flag"
// @Success      200            {object}  response.Response{data=response.Page{items=[]model.Presupuesto}}
// @Router       /presupuestos [get]
func (h *PresupuestoHandler) ListPresupuestos(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.presupuestoService.List(c.Request.Context(), p, c.Query("reparacion_id"), c.Query("aceptado"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetPresupuesto
// @Summary      Get budget
// @Tags         presupuestos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Presupuesto ID"
// @Success      200  {object}  response.Response{data=model.Presupuesto}
// @Failure      404  {object}  response.Response
// @Router       /presupuestos/{id} [get]
func (h *PresupuestoHandler) GetPresupuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	presupuesto, err := h.presupuestoService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, presupuesto)
}

// CreatePresupuesto
// @Summary      Create budget
// @Tags         presupuestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PresupuestoRequest  true  "Presupuesto"
// @Success      201      {object}  response.Response{data=model.Presupuesto}
// @Failure      404      {object}  response.Response  "Reparacion not found"
// @Failure      422      {object}  response.Response
// @Router       /presupuestos [post]
func (h *PresupuestoHandler) CreatePresupuesto(c *gin.Context) {
	var req service.PresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	presupuesto, err := h.presupuestoService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, presupuesto)
}

// UpdatePresupuesto
// @Summary      Update budget
// @Tags         presupuestos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Presupuesto ID"
// @Param        payload  body      service.PresupuestoRequest  true  "Presupuesto"
// @Success      200      {object}  response.Response{data=model.Presupuesto}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /presupuestos/{id} [put]
func (h *PresupuestoHandler) UpdatePresupuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.PresupuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	presupuesto, err := h.presupuestoService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, presupuesto)
}

// DeletePresupuesto
// @Summary      Delete budget
// @Description  Also deletes the invoice issued from it, together with its payments
// @Tags         presupuestos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Presupuesto ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /presupuestos/{id} [delete]
func (h *PresupuestoHandler) DeletePresupuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.presupuestoService.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Presupuesto eliminado"})
}

// AceptarPresupuesto
// @Summary      Accept budget
// @Description  Marks the budget as accepted. Accepting twice is a no-op.
// @Tags         presupuestos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Presupuesto ID"
// @Success      200  {object}  response.Response{data=model.Presupuesto}
// @Failure      404  {object}  response.Response
// @Router       /presupuestos/{id}/aceptar [patch]
func (h *PresupuestoHandler) AceptarPresupuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	presupuesto, err := h.presupuestoService.Aceptar(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, presupuesto)
}
