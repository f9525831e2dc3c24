package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ProveedorHandler struct {
	proveedorService service.ProveedorService
}

func NewProveedorHandler(proveedorService service.ProveedorService) *ProveedorHandler {
	return &ProveedorHandler{proveedorService: proveedorService}
}

func (h *ProveedorHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	proveedores := router.Group("/proveedores", auth.Authenticate())
	{
		proveedores.GET("", auth.RequirePermission(authz.ProveedoresVer), h.ListProveedores)
		proveedores.GET("/:id", auth.RequirePermission(authz.ProveedoresVer), h.GetProveedor)
		proveedores.POST("", auth.RequirePermission(authz.ProveedoresGestionar), h.CreateProveedor)
		proveedores.PUT("/:id", auth.RequirePermission(authz.ProveedoresGestionar), h.UpdateProveedor)
		proveedores.DELETE("/:id", auth.RequirePermission(authz.ProveedoresGestionar), h.DeleteProveedor)

		proveedores.GET("/:id/repuestos", auth.RequirePermission(authz.ProveedoresGestionar), h.ListRepuestos)
		proveedores.POST("/:id/repuestos", auth.RequirePermission(authz.ProveedoresGestionar), h.AddRepuesto)
		proveedores.DELETE("/:id/repuestos/:repuestoId", auth.RequirePermission(authz.ProveedoresGestionar), h.RemoveRepuesto)
	}
}

// ListProveedores
// @Summary      List suppliers
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Razón social o CUIT"
// @Param        activo  query     bool    false  "Filter by active flag"
// @Success      200     {object}  response.Response{data=response.Page{items=[]model.Proveedor}}
// @Router       /proveedores [get]
func (h *ProveedorHandler) ListProveedores(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.proveedorService.List(c.Request.Context(), p, c.Query("activo"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetProveedor
// @Summary      Get supplier
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proveedor ID"
// @Success      200  {object}  response.Response{data=model.Proveedor}
// @Failure      404  {object}  response.Response
// @Router       /proveedores/{id} [get]
func (h *ProveedorHandler) GetProveedor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	proveedor, err := h.proveedorService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, proveedor)
}

// CreateProveedor
// @Summary      Create supplier
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ProveedorRequest  true  "Proveedor"
// @Success      201      {object}  response.Response{data=model.Proveedor}
// @Failure      422      {object}  response.Response  "Validation error or duplicated CUIT"
// @Router       /proveedores [post]
func (h *ProveedorHandler) CreateProveedor(c *gin.Context) {
	var req service.ProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	proveedor, err := h.proveedorService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, proveedor)
}

// UpdateProveedor
// @Summary      Update supplier
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Proveedor ID"
// @Param        payload  body      service.ProveedorRequest  true  "Proveedor"
// @Success      200      {object}  response.Response{data=model.Proveedor}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /proveedores/{id} [put]
func (h *ProveedorHandler) UpdateProveedor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ProveedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	proveedor, err := h.proveedorService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, proveedor)
}

// DeleteProveedor
// @Summary      Delete supplier
// @Description  Also removes the supplier's part links
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proveedor ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /proveedores/{id} [delete]
func (h *ProveedorHandler) DeleteProveedor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.proveedorService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Proveedor eliminado"})
}

// ListRepuestos
// @Summary      List parts offered by a supplier
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Proveedor ID"
// @Success      200  {object}  response.Response{data=[]model.ProveedorRepuesto}
// @Failure      404  {object}  response.Response
// @Router       /proveedores/{id}/repuestos [get]
func (h *ProveedorHandler) ListRepuestos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.proveedorService.ListRepuestos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, items)
}

// AddRepuesto
// @Summary      Link a part to a supplier
// @Description  Creates the link or updates its price and active flag
// @Tags         proveedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Proveedor ID"
// @Param        payload  body      service.ProveedorRepuestoRequest  true  "Repuesto y precio"
// @Success      200      {object}  response.Response{data=model.ProveedorRepuesto}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /proveedores/{id}/repuestos [post]
func (h *ProveedorHandler) AddRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ProveedorRepuestoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	link, err := h.proveedorService.AddRepuesto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, link)
}

// RemoveRepuesto
// @Summary      Unlink a part from a supplier
// @Tags         proveedores
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Proveedor ID"
// @Param        repuestoId  path      string  true  "Repuesto ID"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /proveedores/{id}/repuestos/{repuestoId} [delete]
func (h *ProveedorHandler) RemoveRepuesto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	repuestoID, ok := parseID(c, "repuestoId")
	if !ok {
		return
	}
	if err := h.proveedorService.RemoveRepuesto(c.Request.Context(), id, repuestoID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Repuesto desvinculado del proveedor"})
}
