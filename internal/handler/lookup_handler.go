package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/model"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

// LookupHandler serves a nombre-only catalog (especializaciones, medios de cobro).
type LookupHandler[T any] struct {
	svc       service.LookupService[T]
	path      string
	ver       authz.Permission
	gestionar authz.Permission
	deleted   string
}

// NewEspecializacionHandler serves /especializaciones
func NewEspecializacionHandler(svc service.LookupService[model.Especializacion]) *LookupHandler[model.Especializacion] {
	return &LookupHandler[model.Especializacion]{
		svc:       svc,
		path:      "/especializaciones",
		ver:       authz.EspecializacionesVer,
		gestionar: authz.EspecializacionesGestionar,
		deleted:   "Especialización eliminada",
	}
}

// NewMedioCobroHandler serves /medios-cobro
func NewMedioCobroHandler(svc service.LookupService[model.MedioCobro]) *LookupHandler[model.MedioCobro] {
	return &LookupHandler[model.MedioCobro]{
		svc:       svc,
		path:      "/medios-cobro",
		ver:       authz.MediosCobroVer,
		gestionar: authz.MediosCobroGestionar,
		deleted:   "Medio de cobro eliminado",
	}
}

func (h *LookupHandler[T]) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	group := router.Group(h.path, auth.Authenticate())
	{
		group.GET("", auth.RequirePermission(h.ver), h.List)
		group.GET("/:id", auth.RequirePermission(h.ver), h.Get)
		group.POST("", auth.RequirePermission(h.gestionar), h.Create)
		group.PUT("/:id", auth.RequirePermission(h.gestionar), h.Update)
		group.DELETE("/:id", auth.RequirePermission(h.gestionar), h.Delete)
	}
}

func (h *LookupHandler[T]) List(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

func (h *LookupHandler[T]) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entity, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entity)
}

func (h *LookupHandler[T]) Create(c *gin.Context) {
	var req service.NombreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	entity, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entity)
}

func (h *LookupHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.NombreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	entity, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entity)
}

func (h *LookupHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": h.deleted})
}
