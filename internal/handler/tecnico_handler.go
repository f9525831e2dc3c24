package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type TecnicoHandler struct {
	tecnicoService service.TecnicoService
}

func NewTecnicoHandler(tecnicoService service.TecnicoService) *TecnicoHandler {
	return &TecnicoHandler{tecnicoService: tecnicoService}
}

func (h *TecnicoHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	tecnicos := router.Group("/tecnicos", auth.Authenticate())
	{
		tecnicos.GET("", auth.RequirePermission(authz.TecnicosVer), h.ListTecnicos)
		tecnicos.GET("/:id", auth.RequirePermission(authz.TecnicosVer), h.GetTecnico)
		tecnicos.POST("", auth.RequirePermission(authz.TecnicosGestionar), h.CreateTecnico)
		tecnicos.PUT("/:id", auth.RequirePermission(authz.TecnicosGestionar), h.UpdateTecnico)
		tecnicos.DELETE("/:id", auth.RequirePermission(authz.TecnicosGestionar), h.DeleteTecnico)
	}
}

// ListTecnicos
// @Summary      List technicians
// @Tags         tecnicos
// @Produce      json
// @Security     BearerAuth
// @Param        page                query     int     false  "Page number"
// @Param        limit               query     int     false  "Items per page"
// @Param        search              query     string  false  "Texto a buscar"
// @Param        especializacion_id  query     string  false  "Filter by specialization"
// @Success      200                 {object}  response.Response{data=response.Page{items=[]model.Tecnico}}
// @Router       /tecnicos [get]
func (h *TecnicoHandler) ListTecnicos(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.tecnicoService.List(c.Request.Context(), p, c.Query("especializacion_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetTecnico
// @Summary      Get technician
// @Tags         tecnicos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tecnico ID"
// @Success      200  {object}  response.Response{data=model.Tecnico}
// @Failure      404  {object}  response.Response
// @Router       /tecnicos/{id} [get]
func (h *TecnicoHandler) GetTecnico(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tecnico, err := h.tecnicoService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tecnico)
}

// CreateTecnico
// @Summary      Create technician
// @Tags         tecnicos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TecnicoRequest  true  "Tecnico"
// @Success      201      {object}  response.Response{data=model.Tecnico}
// @Failure      404      {object}  response.Response  "Especializacion not found"
// @Failure      422      {object}  response.Response
// @Router       /tecnicos [post]
func (h *TecnicoHandler) CreateTecnico(c *gin.Context) {
	var req service.TecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tecnico, err := h.tecnicoService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, tecnico)
}

// UpdateTecnico
// @Summary      Update technician
// @Tags         tecnicos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Tecnico ID"
// @Param        payload  body      service.TecnicoRequest  true  "Tecnico"
// @Success      200      {object}  response.Response{data=model.Tecnico}
// @Failure      404      {object}  response.Response
// @Router       /tecnicos/{id} [put]
func (h *TecnicoHandler) UpdateTecnico(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.TecnicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tecnico, err := h.tecnicoService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tecnico)
}

// DeleteTecnico
// @Summary      Delete technician
// @Tags         tecnicos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tecnico ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tecnicos/{id} [delete]
func (h *TecnicoHandler) DeleteTecnico(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tecnicoService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Técnico eliminado"})
}
