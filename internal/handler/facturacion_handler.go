package handler

import (
	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type FacturacionHandler struct {
	facturacionService service.FacturacionService
}

// NewFacturacionHandler serves invoices and the payments registered against them
func NewFacturacionHandler(facturacionService service.FacturacionService) *FacturacionHandler {
	return &FacturacionHandler{facturacionService: facturacionService}
}

func (h *FacturacionHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	facturas := router.Group("/facturas", auth.Authenticate())
	{
		facturas.GET("", auth.RequirePermission(authz.FacturasVer), h.ListFacturas)
		facturas.GET("/:id", auth.RequirePermission(authz.FacturasVer), h.GetFactura)
		facturas.GET("/:id/saldo", auth.RequirePermission(authz.FacturasVer), h.GetSaldo)
		facturas.GET("/:id/cobros", auth.RequirePermission(authz.CobrosVer), h.ListCobrosByFactura)
		facturas.POST("", auth.RequirePermission(authz.FacturasGestionar), h.CreateFactura)
		facturas.PUT("/:id", auth.RequirePermission(authz.FacturasGestionar), h.UpdateFactura)
		facturas.DELETE("/:id", auth.RequirePermission(authz.FacturasGestionar), h.DeleteFactura)
	}

	cobros := router.Group("/cobros", auth.Authenticate())
	{
		cobros.GET("", auth.RequirePermission(authz.CobrosVer), h.ListCobros)
		cobros.POST("", auth.RequirePermission(authz.CobrosGestionar), h.RegistrarCobro)
	}
}

// ListFacturas
// @Summary      List invoices
// @Description  Search matches numero, letra and detalle, case-insensitively
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        search  query     string  false  "Texto a buscar"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.FacturaResponse}}
// @Router       /facturas [get]
func (h *FacturacionHandler) ListFacturas(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.facturacionService.ListFacturas(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// GetFactura
// @Summary      Get invoice
// @Description  Includes its payments and the outstanding balance
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Factura ID"
// @Success      200  {object}  response.Response{data=service.FacturaResponse}
// @Failure      404  {object}  response.Response
// @Router       /facturas/{id} [get]
func (h *FacturacionHandler) GetFactura(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	factura, err := h.facturacionService.GetFactura(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, factura)
}

// GetSaldo
// @Summary      Outstanding balance
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Factura ID"
// @Success      200  {object}  response.Response{data=service.SaldoResponse}
// @Failure      404  {object}  response.Response
// @Router       /facturas/{id}/saldo [get]
func (h *FacturacionHandler) GetSaldo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	saldo, err := h.facturacionService.GetSaldo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, saldo)
}

// CreateFactura
// @Summary      Create invoice
// @Description  The budget must be accepted, its repair finished and it must not be invoiced yet
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.FacturaRequest  true  "Factura"
// @Success      201      {object}  response.Response{data=service.FacturaResponse}
// @Failure      404      {object}  response.Response  "Presupuesto not found"
// @Failure      422      {object}  response.Response  "Validation error or invalid state"
// @Router       /facturas [post]
func (h *FacturacionHandler) CreateFactura(c *gin.Context) {
	var req service.FacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	factura, err := h.facturacionService.CreateFactura(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, factura)
}

// UpdateFactura
// @Summary      Update invoice
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Factura ID"
// @Param        payload  body      service.FacturaRequest  true  "Factura"
// @Success      200      {object}  response.Response{data=service.FacturaResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /facturas/{id} [put]
func (h *FacturacionHandler) UpdateFactura(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.FacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	factura, err := h.facturacionService.UpdateFactura(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, factura)
}

// DeleteFactura
// @Summary      Delete invoice
// @Description  Payments registered against it are deleted too
// @Tags         facturas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Factura ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /facturas/{id} [delete]
func (h *FacturacionHandler) DeleteFactura(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.facturacionService.DeleteFactura(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Factura eliminada"})
}

// ListCobrosByFactura
// @Summary      Payments of an invoice
// @Tags         cobros
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Factura ID"
// @Success      200  {object}  response.Response{data=[]model.Cobro}
// @Failure      404  {object}  response.Response
// @Router       /facturas/{id}/cobros [get]
func (h *FacturacionHandler) ListCobrosByFactura(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cobros, err := h.facturacionService.ListCobrosByFactura(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cobros)
}

// ListCobros
// @Summary      List payments
// @Tags         cobros
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Items per page"
// @Param        factura_id  query     string  false  "Filter by invoice"
// @Success      200         {object}  response.Response{data=response.Page{items=[]model.Cobro}}
// @Failure      400         {object}  response.Response
// @Router       /cobros [get]
func (h *FacturacionHandler) ListCobros(c *gin.Context) {
	facturaID, ok := parseOptionalUUIDQuery(c, "factura_id")
	if !ok {
		return
	}
	p := pagination.Parse(c)
	cobros, total, err := h.facturacionService.ListCobros(c.Request.Context(), p, facturaID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, cobros, total, p)
}

// RegistrarCobro
// @Summary      Register payment
// @Description  Fails when the amount exceeds the outstanding balance; details carry saldo_pendiente
// @Tags         cobros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCobroRequest  true  "Cobro"
// @Success      201      {object}  response.Response{data=service.CobroResponse}
// @Failure      404      {object}  response.Response  "Factura or medio de cobro not found"
// @Failure      422      {object}  response.Response  "Amount exceeds the outstanding balance"
// @Router       /cobros [post]
func (h *FacturacionHandler) RegistrarCobro(c *gin.Context) {
	var req service.CreateCobroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.facturacionService.RegistrarCobro(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, res)
}
