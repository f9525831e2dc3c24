package service

import (
	"context"
	"fmt"
	"strings"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

// Movimiento is one ledger append. Cantidad is the signed stock delta.
type Movimiento struct {
	RepuestoID uuid.UUID
	Tipo       model.TipoMovimiento
	Cantidad   int
	Origen     model.Origen
	UsuarioID  uuid.UUID
}

type CreateCompraRequest struct {
	ProveedorID   *uuid.UUID      `json:"proveedor_id"`
	RepuestoID    uuid.UUID       `json:"repuesto_id" validate:"required"`
	Cantidad      int             `json:"cantidad" validate:"required,gt=0"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"gte=0"`
	Fecha         string          `json:"fecha"` // optional, AAAA-MM-DD or RFC3339
}

type AsignarRepuestoRequest struct {
	RepuestoID uuid.UUID `json:"repuesto_id" validate:"required"`
	Cantidad   int       `json:"cantidad" validate:"required,gt=0"`
}

// AjusteStockRequest: AJUSTE takes a signed delta; DEVOLUCION adds, VENTA and
// BAJA subtract the given positive quantity.
type AjusteStockRequest struct {
	RepuestoID uuid.UUID `json:"repuesto_id" validate:"required"`
	Tipo       string    `json:"tipo" validate:"required,oneof=AJUSTE DEVOLUCION VENTA BAJA"`
	Cantidad   int       `json:"cantidad" validate:"required"`
	Motivo     string    `json:"motivo" validate:"max=500"`
}

type AjusteStockResponse struct {
	Ajuste     model.AjusteStock    `json:"ajuste"`
	Movimiento model.HistorialStock `json:"movimiento"`
}

type CompraResponse struct {
	Compra     model.Compra         `json:"compra"`
	Movimiento model.HistorialStock `json:"movimiento"`
}

type AsignacionResponse struct {
	Asignacion model.ReparacionRepuesto `json:"asignacion"`
	Movimiento model.HistorialStock     `json:"movimiento"`
}

type StockEvent struct {
	RepuestoID string `json:"repuesto_id"`
	Nombre     string `json:"nombre"`
	TipoMov    string `json:"tipo_mov"`
	Cantidad   int    `json:"cantidad"`
	StockNuevo int    `json:"stock_nuevo"`
}

// --- Interface ---

type StockService interface {
	// Apply appends a ledger row and updates the part's stock. It joins the
	// transaction in ctx when present.
	Apply(ctx context.Context, m Movimiento) (*model.HistorialStock, error)
	RegistrarCompra(ctx context.Context, actor uuid.UUID, req CreateCompraRequest) (CompraResponse, error)
	ListCompras(ctx context.Context, p pagination.Params) ([]model.Compra, int64, error)
	AsignarRepuesto(ctx context.Context, actor, reparacionID uuid.UUID, req AsignarRepuestoRequest) (AsignacionResponse, error)
	ListAsignaciones(ctx context.Context, reparacionID uuid.UUID) ([]model.ReparacionRepuesto, error)
	AjustarStock(ctx context.Context, actor uuid.UUID, req AjusteStockRequest) (AjusteStockResponse, error)
	ListHistorial(ctx context.Context, filter repository.HistorialFilter, p pagination.Params) ([]model.HistorialStock, int64, error)
}

type stockService struct {
	repuestoRepo   repository.RepuestoRepository
	historialRepo  repository.HistorialStockRepository
	compraRepo     repository.CompraRepository
	reparacionRepo repository.ReparacionRepository
	proveedorRepo  repository.ProveedorRepository
	audit          AuditService
	txManager      repository.TransactionManager
	events         EventPublisher
	logger         *zap.Logger
}

func NewStockService(
	repuestoRepo repository.RepuestoRepository,
	historialRepo repository.HistorialStockRepository,
	compraRepo repository.CompraRepository,
	reparacionRepo repository.ReparacionRepository,
	proveedorRepo repository.ProveedorRepository,
	audit AuditService,
	txManager repository.TransactionManager,
	events EventPublisher,
	logger *zap.Logger,
) StockService {
	return &stockService{
		repuestoRepo:   repuestoRepo,
		historialRepo:  historialRepo,
		compraRepo:     compraRepo,
		reparacionRepo: reparacionRepo,
		proveedorRepo:  proveedorRepo,
		audit:          audit,
		txManager:      txManager,
		events:         publisherOrNop(events),
		logger:         logger.Named("stock"),
	}
}

// --- Implementation ---

func (s *stockService) Apply(ctx context.Context, m Movimiento) (*model.HistorialStock, error) {
	if m.Cantidad == 0 {
		return nil, apperror.NewValidation("La cantidad del movimiento no puede ser cero")
	}
	if !m.Tipo.Valid() {
		return nil, apperror.NewValidation("Tipo de movimiento inválido: %s", m.Tipo)
	}
	if m.Origen == nil {
		return nil, apperror.NewInternal(fmt.Errorf("stock movement for %s has no origin", m.RepuestoID))
	}

	var entry *model.HistorialStock
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		repuesto, err := s.repuestoRepo.FindByIDForUpdate(txCtx, m.RepuestoID)
		if err != nil {
			return apperror.FromDB(err, "Repuesto no encontrado")
		}

		anterior := repuesto.Stock
		nuevo := anterior + m.Cantidad
		if nuevo < 0 {
			return apperror.NewInvalidState("stock insuficiente").
				WithDetail("repuesto", repuesto.Nombre).
				WithDetail("stock_disponible", anterior).
				WithDetail("cantidad_solicitada", -m.Cantidad)
		}

		if err := s.repuestoRepo.UpdateStock(txCtx, repuesto.ID, nuevo); err != nil {
			return apperror.NewInternal(fmt.Errorf("update stock: %w", err))
		}

		entry = &model.HistorialStock{
			RepuestoID:    repuesto.ID,
			TipoMov:       m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: anterior,
			StockNuevo:    nuevo,
			UsuarioID:     actorPtr(m.UsuarioID),
		}
		entry.SetOrigen(m.Origen)
		if err := s.historialRepo.Create(txCtx, entry); err != nil {
			return apperror.NewInternal(fmt.Errorf("append stock ledger: %w", err))
		}
		repuesto.Stock = nuevo
		entry.Repuesto = repuesto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *stockService) RegistrarCompra(ctx context.Context, actor uuid.UUID, req CreateCompraRequest) (CompraResponse, error) {
	if req.Cantidad <= 0 {
		return CompraResponse{}, apperror.NewValidation("La cantidad debe ser mayor a cero")
	}
	if req.CostoUnitario.IsNegative() {
		return CompraResponse{}, apperror.NewValidation("El costo unitario no puede ser negativo")
	}
	fecha, err := parseFecha(req.Fecha, nowUTC())
	if err != nil {
		return CompraResponse{}, err
	}

	compra := model.Compra{
		ProveedorID:   req.ProveedorID,
		RepuestoID:    req.RepuestoID,
		Cantidad:      req.Cantidad,
		CostoUnitario: req.CostoUnitario.Round(2),
		Fecha:         fecha,
		UsuarioID:     actorPtr(actor),
	}

	var mov *model.HistorialStock
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.ProveedorID != nil {
			if _, err := s.proveedorRepo.FindByID(txCtx, *req.ProveedorID); err != nil {
				return apperror.FromDB(err, "Proveedor no encontrado")
			}
		}
		if err := s.compraRepo.Create(txCtx, &compra); err != nil {
			return apperror.NewInternal(fmt.Errorf("create compra: %w", err))
		}

		var err error
		mov, err = s.Apply(txCtx, Movimiento{
			RepuestoID: req.RepuestoID,
			Tipo:       model.MovCompra,
			Cantidad:   req.Cantidad,
			Origen:     model.OrigenCompra{CompraID: compra.ID},
			UsuarioID:  actor,
		})
		if err != nil {
			return err
		}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionCreateCompra,
			EntidadID: compra.ID,
			Entidad:   mov.Repuesto.Nombre,
			Detalles:  req,
		})
	})
	if err != nil {
		return CompraResponse{}, apperror.As(err)
	}

	s.publishStock(mov)
	s.logger.Info("compra registrada",
		zap.String("compra_id", compra.ID.String()),
		zap.String("repuesto_id", req.RepuestoID.String()),
		zap.Int("cantidad", req.Cantidad),
	)

	compra.Repuesto = mov.Repuesto
	return CompraResponse{Compra: compra, Movimiento: *mov}, nil
}

func (s *stockService) ListCompras(ctx context.Context, p pagination.Params) ([]model.Compra, int64, error) {
	compras, total, err := s.compraRepo.List(ctx, p)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	return compras, total, nil
}

func (s *stockService) AsignarRepuesto(ctx context.Context, actor, reparacionID uuid.UUID, req AsignarRepuestoRequest) (AsignacionResponse, error) {
	if req.Cantidad <= 0 {
		return AsignacionResponse{}, apperror.NewValidation("La cantidad debe ser mayor a cero")
	}

	asignacion := model.ReparacionRepuesto{
		ReparacionID: reparacionID,
		RepuestoID:   req.RepuestoID,
		Cantidad:     req.Cantidad,
		UsuarioID:    actorPtr(actor),
	}

	var mov *model.HistorialStock
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.reparacionRepo.FindByID(txCtx, reparacionID); err != nil {
			return apperror.FromDB(err, "Reparación no encontrada")
		}
		if err := s.reparacionRepo.CreateAsignacion(txCtx, &asignacion); err != nil {
			return apperror.NewInternal(fmt.Errorf("create asignacion: %w", err))
		}

		var err error
		mov, err = s.Apply(txCtx, Movimiento{
			RepuestoID: req.RepuestoID,
			Tipo:       model.MovAsignacionRepuesto,
			Cantidad:   -req.Cantidad,
			Origen:     model.OrigenReparacion{AsignacionID: asignacion.ID},
			UsuarioID:  actor,
		})
		if err != nil {
			return err
		}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionAsignarRep,
			EntidadID: reparacionID,
			Entidad:   mov.Repuesto.Nombre,
			Detalles:  req,
		})
	})
	if err != nil {
		return AsignacionResponse{}, apperror.As(err)
	}

	s.publishStock(mov)
	asignacion.Repuesto = mov.Repuesto
	return AsignacionResponse{Asignacion: asignacion, Movimiento: *mov}, nil
}

func (s *stockService) ListAsignaciones(ctx context.Context, reparacionID uuid.UUID) ([]model.ReparacionRepuesto, error) {
	if _, err := s.reparacionRepo.FindByID(ctx, reparacionID); err != nil {
		return nil, apperror.FromDB(err, "Reparación no encontrada")
	}
	items, err := s.reparacionRepo.ListAsignaciones(ctx, reparacionID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return items, nil
}

func (s *stockService) AjustarStock(ctx context.Context, actor uuid.UUID, req AjusteStockRequest) (AjusteStockResponse, error) {
	tipo := model.TipoMovimiento(strings.ToUpper(strings.TrimSpace(req.Tipo)))
	delta, err := ajusteDelta(tipo, req.Cantidad)
	if err != nil {
		return AjusteStockResponse{}, err
	}

	ajuste := model.AjusteStock{
		RepuestoID: req.RepuestoID,
		Tipo:       tipo,
		Cantidad:   delta,
		Motivo:     strings.TrimSpace(req.Motivo),
		UsuarioID:  actorPtr(actor),
	}

	mov, err := s.applyAjuste(ctx, actor, &ajuste)
	if err != nil {
		return AjusteStockResponse{}, err
	}

	s.publishStock(mov)
	s.logger.Info("ajuste de stock",
		zap.String("repuesto_id", req.RepuestoID.String()),
		zap.String("tipo", string(tipo)),
		zap.Int("cantidad", delta),
	)
	return AjusteStockResponse{Ajuste: ajuste, Movimiento: *mov}, nil
}

// applyAjuste persists the adjustment and its ledger row in one transaction.
func (s *stockService) applyAjuste(ctx context.Context, actor uuid.UUID, ajuste *model.AjusteStock) (*model.HistorialStock, error) {
	var mov *model.HistorialStock
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.historialRepo.CreateAjuste(txCtx, ajuste); err != nil {
			return apperror.NewInternal(fmt.Errorf("create ajuste: %w", err))
		}

		var err error
		mov, err = s.Apply(txCtx, Movimiento{
			RepuestoID: ajuste.RepuestoID,
			Tipo:       ajuste.Tipo,
			Cantidad:   ajuste.Cantidad,
			Origen:     model.OrigenAjuste{AjusteID: ajuste.ID},
			UsuarioID:  actor,
		})
		if err != nil {
			return err
		}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionAjusteStock,
			EntidadID: ajuste.ID,
			Entidad:   mov.Repuesto.Nombre,
			Detalles:  ajuste,
		})
	})
	if err != nil {
		return nil, apperror.As(err)
	}
	return mov, nil
}

func ajusteDelta(tipo model.TipoMovimiento, cantidad int) (int, error) {
	switch tipo {
	case model.MovAjuste:
		if cantidad == 0 {
			return 0, apperror.NewValidation("La cantidad del ajuste no puede ser cero")
		}
		return cantidad, nil
	case model.MovDevolucion, model.MovVenta, model.MovBaja:
		if cantidad <= 0 {
			return 0, apperror.NewValidation("La cantidad debe ser mayor a cero")
		}
		if tipo == model.MovDevolucion {
			return cantidad, nil
		}
		return -cantidad, nil
	}
	return 0, apperror.NewValidation("Tipo de ajuste inválido: %s", tipo)
}

func (s *stockService) ListHistorial(ctx context.Context, filter repository.HistorialFilter, p pagination.Params) ([]model.HistorialStock, int64, error) {
	if filter.TipoMov != "" && !filter.TipoMov.Valid() {
		return nil, 0, apperror.NewValidation("Tipo de movimiento inválido: %s", filter.TipoMov)
	}
	rows, total, err := s.historialRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	return rows, total, nil
}

func (s *stockService) publishStock(mov *model.HistorialStock) {
	ev := StockEvent{
		RepuestoID: mov.RepuestoID.String(),
		TipoMov:    string(mov.TipoMov),
		Cantidad:   mov.Cantidad,
		StockNuevo: mov.StockNuevo,
	}
	if mov.Repuesto != nil {
		ev.Nombre = mov.Repuesto.Nombre
	}
	s.events.Publish(EventStockActualizado, ev)
}
