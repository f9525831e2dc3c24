package handler

import (
	"strings"

	"taller/internal/authz"
	"taller/internal/middleware"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/service"
	"taller/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

// NewStockHandler serves purchases, manual adjustments and the stock ledger
func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.Auth) {
	compras := router.Group("/compras", auth.Authenticate(), auth.RequirePermission(authz.ComprasGestionar))
	{
		compras.GET("", h.ListCompras)
		compras.POST("", h.RegistrarCompra)
	}

	historial := router.Group("/historial-stock", auth.Authenticate())
	{
		historial.GET("", auth.RequirePermission(authz.StockVer), h.ListHistorial)
		historial.POST("/ajustes", auth.RequirePermission(authz.StockAjustar), h.AjustarStock)
	}
}

// ListCompras
// @Summary      List purchases
// @Tags         compras
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=response.Page{items=[]model.Compra}}
// @Router       /compras [get]
func (h *StockHandler) ListCompras(c *gin.Context) {
	p := pagination.Parse(c)
	items, total, err := h.stockService.ListCompras(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// RegistrarCompra
// @Summary      Register purchase
// @Description  Increments stock through the ledger (tipo COMPRA)
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCompraRequest  true  "Compra"
// @Success      201      {object}  response.Response{data=service.CompraResponse}
// @Failure      404      {object}  response.Response  "Repuesto or proveedor not found"
// @Failure      422      {object}  response.Response
// @Router       /compras [post]
func (h *StockHandler) RegistrarCompra(c *gin.Context) {
	var req service.CreateCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.stockService.RegistrarCompra(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, res)
}

// ListHistorial
// @Summary      Stock ledger
// @Description  Every stock movement, newest first
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Items per page"
// @Param        repuesto_id  query     string  false  "Filter by part"
// @Param        tipo_mov     query     string  false  "COMPRA, ASIGNACION_REPUESTO, AJUSTE, DEVOLUCION, VENTA or BAJA"
// @Param        desde        query     string  false  "From date (AAAA-MM-DD or RFC3339)"
// @Param        hasta        query     string  false  "To date, inclusive (AAAA-MM-DD or RFC3339)"
// @Success      200          {object}  response.Response{data=response.Page{items=[]model.HistorialStock}}
// @Failure      400          {object}  response.Response
// @Router       /historial-stock [get]
func (h *StockHandler) ListHistorial(c *gin.Context) {
	var filter repository.HistorialFilter
	var ok bool

	if filter.RepuestoID, ok = parseOptionalUUIDQuery(c, "repuesto_id"); !ok {
		return
	}
	if filter.Desde, ok = parseDateQuery(c, "desde", false); !ok {
		return
	}
	if filter.Hasta, ok = parseDateQuery(c, "hasta", true); !ok {
		return
	}
	filter.TipoMov = model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(c.Query("tipo_mov"))))

	p := pagination.Parse(c)
	items, total, err := h.stockService.ListHistorial(c.Request.Context(), filter, p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, p)
}

// AjustarStock
// @Summary      Manual stock adjustment
// @Description  AJUSTE takes a signed quantity; DEVOLUCION adds, VENTA and BAJA subtract. Resulting stock cannot be negative.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.AjusteStockRequest  true  "Ajuste"
// @Success      201      {object}  response.Response{data=service.AjusteStockResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /historial-stock/ajustes [post]
func (h *StockHandler) AjustarStock(c *gin.Context) {
	var req service.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.stockService.AjustarStock(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, res)
}
