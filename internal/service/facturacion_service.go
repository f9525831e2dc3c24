package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

// FacturaRequest is used for both create and update. fecha is always
// assigned by the server.
type FacturaRequest struct {
	PresupuestoID uuid.UUID       `json:"presupuesto_id" validate:"required"`
	Numero        string          `json:"numero" validate:"required,max=30"`
	Letra         string          `json:"letra" validate:"required,max=1"`
	MontoTotal    decimal.Decimal `json:"monto_total" validate:"gt=0"`
	Detalle       string          `json:"detalle"`
}

type CreateCobroRequest struct {
	FacturaID    uuid.UUID       `json:"factura_id" validate:"required"`
	Monto        decimal.Decimal `json:"monto" validate:"gt=0"`
	MedioCobroID uuid.UUID       `json:"medio_cobro_id" validate:"required"`
	Fecha        string          `json:"fecha"` // optional, AAAA-MM-DD or RFC3339
}

type FacturaResponse struct {
	model.Factura
	TotalCobrado   decimal.Decimal `json:"total_cobrado"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
}

type SaldoResponse struct {
	FacturaID      string          `json:"factura_id"`
	MontoTotal     decimal.Decimal `json:"monto_total"`
	TotalCobrado   decimal.Decimal `json:"total_cobrado"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
}

type CobroResponse struct {
	Cobro          model.Cobro     `json:"cobro"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
}

type FacturaEvent struct {
	FacturaID  string `json:"factura_id"`
	Numero     string `json:"numero"`
	Letra      string `json:"letra"`
	MontoTotal string `json:"monto_total"`
}

type CobroEvent struct {
	FacturaID      string `json:"factura_id"`
	CobroID        string `json:"cobro_id"`
	Monto          string `json:"monto"`
	SaldoPendiente string `json:"saldo_pendiente"`
}

// --- Interface ---

type FacturacionService interface {
	CreateFactura(ctx context.Context, actor uuid.UUID, req FacturaRequest) (FacturaResponse, error)
	UpdateFactura(ctx context.Context, actor, id uuid.UUID, req FacturaRequest) (FacturaResponse, error)
	DeleteFactura(ctx context.Context, actor, id uuid.UUID) error
	GetFactura(ctx context.Context, id uuid.UUID) (FacturaResponse, error)
	ListFacturas(ctx context.Context, p pagination.Params) ([]FacturaResponse, int64, error)
	GetSaldo(ctx context.Context, id uuid.UUID) (SaldoResponse, error)

	RegistrarCobro(ctx context.Context, actor uuid.UUID, req CreateCobroRequest) (CobroResponse, error)
	ListCobrosByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Cobro, error)
	ListCobros(ctx context.Context, p pagination.Params, facturaID *uuid.UUID) ([]model.Cobro, int64, error)
}

type facturacionService struct {
	facturaRepo     repository.FacturaRepository
	cobroRepo       repository.CobroRepository
	presupuestoRepo repository.PresupuestoRepository
	medioCobroRepo  repository.CatalogRepository[model.MedioCobro]
	audit           AuditService
	txManager       repository.TransactionManager
	events          EventPublisher
	logger          *zap.Logger
}

func NewFacturacionService(
	facturaRepo repository.FacturaRepository,
	cobroRepo repository.CobroRepository,
	presupuestoRepo repository.PresupuestoRepository,
	medioCobroRepo repository.CatalogRepository[model.MedioCobro],
	audit AuditService,
	txManager repository.TransactionManager,
	events EventPublisher,
	logger *zap.Logger,
) FacturacionService {
	return &facturacionService{
		facturaRepo:     facturaRepo,
		cobroRepo:       cobroRepo,
		presupuestoRepo: presupuestoRepo,
		medioCobroRepo:  medioCobroRepo,
		audit:           audit,
		txManager:       txManager,
		events:          publisherOrNop(events),
		logger:          logger.Named("facturacion"),
	}
}

// --- Facturas ---

func (s *facturacionService) CreateFactura(ctx context.Context, actor uuid.UUID, req FacturaRequest) (FacturaResponse, error) {
	req, err := normalizeFacturaRequest(req)
	if err != nil {
		return FacturaResponse{}, err
	}

	factura := model.Factura{
		PresupuestoID: req.PresupuestoID,
		Numero:        req.Numero,
		Letra:         req.Letra,
		MontoTotal:    req.MontoTotal,
		Detalle:       req.Detalle,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkFacturable(txCtx, req, uuid.Nil); err != nil {
			return err
		}

		factura.Fecha = nowUTC()
		if err := s.facturaRepo.Create(txCtx, &factura); err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionCreateFactura,
			EntidadID: factura.ID,
			Entidad:   factura.Letra + " " + factura.Numero,
			Detalles:  req,
		})
	})
	if err != nil {
		return FacturaResponse{}, s.facturaConflict(ctx, err, req.PresupuestoID, uuid.Nil)
	}

	s.events.Publish(EventFacturaCreada, FacturaEvent{
		FacturaID:  factura.ID.String(),
		Numero:     factura.Numero,
		Letra:      factura.Letra,
		MontoTotal: factura.MontoTotal.StringFixed(2),
	})
	s.logger.Info("factura creada",
		zap.String("factura_id", factura.ID.String()),
		zap.String("numero", factura.Numero),
		zap.String("presupuesto_id", factura.PresupuestoID.String()),
	)

	return FacturaResponse{
		Factura:        factura,
		TotalCobrado:   decimal.Zero,
		SaldoPendiente: factura.MontoTotal,
	}, nil
}

func (s *facturacionService) UpdateFactura(ctx context.Context, actor, id uuid.UUID, req FacturaRequest) (FacturaResponse, error) {
	req, err := normalizeFacturaRequest(req)
	if err != nil {
		return FacturaResponse{}, err
	}

	var factura *model.Factura
	var cobrado decimal.Decimal
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		factura, err = s.facturaRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}

		if err := s.checkFacturable(txCtx, req, id); err != nil {
			return err
		}

		cobrado, err = s.cobroRepo.SumByFactura(txCtx, id)
		if err != nil {
			return apperror.NewInternal(err)
		}
		if req.MontoTotal.LessThan(cobrado) {
			return apperror.NewInvalidState("El monto total no puede ser menor a lo ya cobrado").
				WithDetail("total_cobrado", cobrado.StringFixed(2))
		}

		factura.PresupuestoID = req.PresupuestoID
		factura.Numero = req.Numero
		factura.Letra = req.Letra
		factura.MontoTotal = req.MontoTotal
		factura.Detalle = req.Detalle
		if err := s.facturaRepo.Update(txCtx, factura); err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionUpdateFactura,
			EntidadID: factura.ID,
			Entidad:   factura.Letra + " " + factura.Numero,
			Detalles:  req,
		})
	})
	if err != nil {
		return FacturaResponse{}, s.facturaConflict(ctx, err, req.PresupuestoID, id)
	}

	return FacturaResponse{
		Factura:        *factura,
		TotalCobrado:   cobrado,
		SaldoPendiente: factura.MontoTotal.Sub(cobrado).Round(2),
	}, nil
}

// checkFacturable runs the invoice gate. excludeID is the invoice being
// updated, or uuid.Nil on create. Checks run in a fixed order so the first
// failing rule decides the error.
func (s *facturacionService) checkFacturable(ctx context.Context, req FacturaRequest, excludeID uuid.UUID) error {
	presupuesto, err := s.presupuestoRepo.FindByIDForUpdate(ctx, req.PresupuestoID)
	if err != nil {
		return apperror.FromDB(err, "Presupuesto no encontrado")
	}

	existing, err := s.facturaRepo.FindByPresupuestoID(ctx, req.PresupuestoID, excludeID)
	switch {
	case err == nil:
		return apperror.NewConflict("El presupuesto ya tiene la factura %s %s", existing.Letra, existing.Numero).
			WithDetail("factura_id", existing.ID.String())
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NewInternal(err)
	}

	if !presupuesto.Aceptado {
		return apperror.NewInvalidState("El presupuesto no está aceptado")
	}

	if presupuesto.Reparacion == nil {
		return apperror.NewNotFound("Reparación no encontrada")
	}
	if !presupuesto.Reparacion.Finalizada() {
		estado := strings.TrimSpace(presupuesto.Reparacion.Estado)
		return apperror.NewInvalidState("La reparación vinculada no está finalizada (estado actual: %s)", estado).
			WithDetail("estado", estado)
	}

	taken, err := s.facturaRepo.ExistsNumero(ctx, req.Numero, excludeID)
	if err != nil {
		return apperror.NewInternal(err)
	}
	if taken {
		return apperror.NewConflict("Ya existe una factura con el número %s", req.Numero)
	}
	return nil
}

// facturaConflict names the invoice that won a concurrent insert for the
// same budget. The lookup runs after rollback, outside the failed transaction.
func (s *facturacionService) facturaConflict(ctx context.Context, err error, presupuestoID, excludeID uuid.UUID) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.As(err)
	}
	existing, findErr := s.facturaRepo.FindByPresupuestoID(ctx, presupuestoID, excludeID)
	if findErr != nil {
		return apperror.As(err)
	}
	return apperror.NewConflict("El presupuesto ya tiene la factura %s %s", existing.Letra, existing.Numero).
		WithDetail("factura_id", existing.ID.String())
}

func normalizeFacturaRequest(req FacturaRequest) (FacturaRequest, error) {
	req.Numero = strings.TrimSpace(req.Numero)
	req.Letra = strings.ToUpper(strings.TrimSpace(req.Letra))
	req.Detalle = strings.TrimSpace(req.Detalle)

	if req.PresupuestoID == uuid.Nil {
		return req, apperror.NewValidation("El presupuesto es obligatorio")
	}
	if req.Numero == "" {
		return req, apperror.NewValidation("El número de factura es obligatorio")
	}
	if len(req.Numero) > 30 {
		return req, apperror.NewValidation("El número de factura admite hasta 30 caracteres")
	}
	switch req.Letra {
	case model.LetraA, model.LetraB, model.LetraC:
	default:
		return req, apperror.NewValidation("Letra de factura inválida: %s", req.Letra)
	}
	if !req.MontoTotal.IsPositive() {
		return req, apperror.NewValidation("El monto total debe ser mayor a cero")
	}
	if !req.MontoTotal.Equal(req.MontoTotal.Round(2)) {
		return req, apperror.NewValidation("El monto total admite hasta dos decimales")
	}
	return req, nil
}

func (s *facturacionService) DeleteFactura(ctx context.Context, actor, id uuid.UUID) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		factura, err := s.facturaRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}
		if err := s.facturaRepo.DeleteCascade(txCtx, id); err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}
		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionDeleteFactura,
			EntidadID: factura.ID,
			Entidad:   factura.Letra + " " + factura.Numero,
			Detalles:  factura,
		})
	})
	return wrapErr(err)
}

func (s *facturacionService) GetFactura(ctx context.Context, id uuid.UUID) (FacturaResponse, error) {
	factura, err := s.facturaRepo.FindByIDWithCobros(ctx, id)
	if err != nil {
		return FacturaResponse{}, apperror.FromDB(err, "Factura no encontrada")
	}

	cobrado := decimal.Zero
	for _, c := range factura.Cobros {
		cobrado = cobrado.Add(c.Monto)
	}
	cobrado = cobrado.Round(2)
	return FacturaResponse{
		Factura:        *factura,
		TotalCobrado:   cobrado,
		SaldoPendiente: factura.MontoTotal.Sub(cobrado).Round(2),
	}, nil
}

func (s *facturacionService) ListFacturas(ctx context.Context, p pagination.Params) ([]FacturaResponse, int64, error) {
	facturas, total, err := s.facturaRepo.List(ctx, p)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}

	res := make([]FacturaResponse, 0, len(facturas))
	for _, f := range facturas {
		cobrado, err := s.cobroRepo.SumByFactura(ctx, f.ID)
		if err != nil {
			return nil, 0, apperror.NewInternal(err)
		}
		res = append(res, FacturaResponse{
			Factura:        f,
			TotalCobrado:   cobrado,
			SaldoPendiente: f.MontoTotal.Sub(cobrado).Round(2),
		})
	}
	return res, total, nil
}

// GetSaldo recomputes the outstanding balance; it is never stored.
func (s *facturacionService) GetSaldo(ctx context.Context, id uuid.UUID) (SaldoResponse, error) {
	factura, err := s.facturaRepo.FindByID(ctx, id)
	if err != nil {
		return SaldoResponse{}, apperror.FromDB(err, "Factura no encontrada")
	}
	cobrado, err := s.cobroRepo.SumByFactura(ctx, id)
	if err != nil {
		return SaldoResponse{}, apperror.NewInternal(err)
	}
	return SaldoResponse{
		FacturaID:      factura.ID.String(),
		MontoTotal:     factura.MontoTotal.Round(2),
		TotalCobrado:   cobrado,
		SaldoPendiente: factura.MontoTotal.Sub(cobrado).Round(2),
	}, nil
}

// --- Cobros ---

func (s *facturacionService) RegistrarCobro(ctx context.Context, actor uuid.UUID, req CreateCobroRequest) (CobroResponse, error) {
	if !req.Monto.IsPositive() {
		return CobroResponse{}, apperror.NewValidation("El monto debe ser mayor a cero")
	}
	if !req.Monto.Equal(req.Monto.Round(2)) {
		return CobroResponse{}, apperror.NewValidation("El monto admite hasta dos decimales")
	}
	fecha, err := parseFecha(req.Fecha, nowUTC())
	if err != nil {
		return CobroResponse{}, err
	}

	cobro := model.Cobro{FacturaID: req.FacturaID, Monto: req.Monto, Fecha: fecha}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		factura, err := s.facturaRepo.FindByIDForUpdate(txCtx, req.FacturaID)
		if err != nil {
			return apperror.FromDB(err, "Factura no encontrada")
		}
		medio, err := s.medioCobroRepo.FindByID(txCtx, req.MedioCobroID)
		if err != nil {
			return apperror.FromDB(err, "Medio de cobro no encontrado")
		}

		cobrado, err := s.cobroRepo.SumByFactura(txCtx, factura.ID)
		if err != nil {
			return apperror.NewInternal(err)
		}
		saldo := factura.MontoTotal.Sub(cobrado).Round(2)
		if req.Monto.GreaterThan(saldo) {
			return apperror.NewInvalidState("El monto supera el saldo pendiente").
				WithDetail("saldo_pendiente", saldo.StringFixed(2))
		}

		if err := s.cobroRepo.Create(txCtx, &cobro); err != nil {
			return apperror.NewInternal(fmt.Errorf("create cobro: %w", err))
		}
		detalle := model.DetalleCobro{
			CobroID:      cobro.ID,
			MedioCobroID: medio.ID,
			MontoPagado:  req.Monto,
			Fecha:        fecha,
		}
		if err := s.cobroRepo.CreateDetalle(txCtx, &detalle); err != nil {
			return apperror.NewInternal(fmt.Errorf("create detalle cobro: %w", err))
		}
		detalle.MedioCobro = medio
		cobro.Detalles = []model.DetalleCobro{detalle}

		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionCreateCobro,
			EntidadID: cobro.ID,
			Entidad:   factura.Letra + " " + factura.Numero,
			Detalles:  req,
		})
	})
	if err != nil {
		return CobroResponse{}, apperror.As(err)
	}

	// re-read after commit so the response reflects every committed payment
	saldo, err := s.GetSaldo(ctx, req.FacturaID)
	if err != nil {
		return CobroResponse{}, err
	}

	s.events.Publish(EventCobroRegistrado, CobroEvent{
		FacturaID:      req.FacturaID.String(),
		CobroID:        cobro.ID.String(),
		Monto:          req.Monto.StringFixed(2),
		SaldoPendiente: saldo.SaldoPendiente.StringFixed(2),
	})
	s.logger.Info("cobro registrado",
		zap.String("factura_id", req.FacturaID.String()),
		zap.String("cobro_id", cobro.ID.String()),
		zap.String("monto", req.Monto.StringFixed(2)),
	)

	return CobroResponse{Cobro: cobro, SaldoPendiente: saldo.SaldoPendiente}, nil
}

func (s *facturacionService) ListCobrosByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Cobro, error) {
	if _, err := s.facturaRepo.FindByID(ctx, facturaID); err != nil {
		return nil, apperror.FromDB(err, "Factura no encontrada")
	}
	cobros, err := s.cobroRepo.ListByFactura(ctx, facturaID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return cobros, nil
}

func (s *facturacionService) ListCobros(ctx context.Context, p pagination.Params, facturaID *uuid.UUID) ([]model.Cobro, int64, error) {
	cobros, total, err := s.cobroRepo.List(ctx, p, facturaID)
	if err != nil {
		return nil, 0, apperror.NewInternal(err)
	}
	return cobros, total, nil
}
