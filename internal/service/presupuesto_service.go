package service

import (
	"context"
	"errors"
	"strconv"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PresupuestoRequest struct {
	ReparacionID uuid.UUID        `json:"reparacion_id" validate:"required"`
	Fecha        string           `json:"fecha"`
	MontoTotal   *decimal.Decimal `json:"monto_total" validate:"omitempty,gte=0"`
	Aceptado     bool             `json:"aceptado"`
}

type PresupuestoService interface {
	List(ctx context.Context, p pagination.Params, reparacionID, aceptado string) ([]model.Presupuesto, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Presupuesto, error)
	Create(ctx context.Context, req PresupuestoRequest) (*model.Presupuesto, error)
	Update(ctx context.Context, id uuid.UUID, req PresupuestoRequest) (*model.Presupuesto, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	// Aceptar marks the budget as accepted, which makes it invoiceable.
	Aceptar(ctx context.Context, actor, id uuid.UUID) (*model.Presupuesto, error)
}

type presupuestoService struct {
	repo           repository.CatalogRepository[model.Presupuesto]
	reparacionRepo repository.ReparacionRepository
	facturaRepo    repository.FacturaRepository
	audit          AuditService
	txManager      repository.TransactionManager
}

func NewPresupuestoService(
	repo repository.CatalogRepository[model.Presupuesto],
	reparacionRepo repository.ReparacionRepository,
	facturaRepo repository.FacturaRepository,
	audit AuditService,
	txManager repository.TransactionManager,
) PresupuestoService {
	return &presupuestoService{
		repo:           repo,
		reparacionRepo: reparacionRepo,
		facturaRepo:    facturaRepo,
		audit:          audit,
		txManager:      txManager,
	}
}

func (s *presupuestoService) List(ctx context.Context, p pagination.Params, reparacionID, aceptado string) ([]model.Presupuesto, int64, error) {
	scopes := []repository.Scope{repository.WhereEq("reparacion_id", reparacionID)}
	if v, err := strconv.ParseBool(aceptado); err == nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("aceptado = ?", v) })
	}
	return listCatalog(ctx, s.repo, p, scopes...)
}

func (s *presupuestoService) Get(ctx context.Context, id uuid.UUID) (*model.Presupuesto, error) {
	return findOrNotFound(ctx, s.repo, id, "Presupuesto no encontrado")
}

func (s *presupuestoService) Create(ctx context.Context, req PresupuestoRequest) (*model.Presupuesto, error) {
	return s.save(ctx, &model.Presupuesto{}, req, true)
}

func (s *presupuestoService) Update(ctx context.Context, id uuid.UUID, req PresupuestoRequest) (*model.Presupuesto, error) {
	presupuesto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, presupuesto, req, false)
}

func (s *presupuestoService) save(ctx context.Context, presupuesto *model.Presupuesto, req PresupuestoRequest, create bool) (*model.Presupuesto, error) {
	monto, err := normalizeMontoPresupuesto(req.MontoTotal)
	if err != nil {
		return nil, err
	}
	def := presupuesto.Fecha
	if create {
		def = nowUTC()
	}
	fecha, err := parseFecha(req.Fecha, def)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		reparacion, err := findOrNotFound[model.Reparacion](txCtx, s.reparacionRepo, req.ReparacionID, "Reparación no encontrada")
		if err != nil {
			return err
		}

		presupuesto.ReparacionID = reparacion.ID
		presupuesto.Fecha = fecha
		presupuesto.MontoTotal = monto
		presupuesto.Aceptado = req.Aceptado
		if err := saveCatalog(txCtx, s.repo, presupuesto, create); err != nil {
			return err
		}
		presupuesto.Reparacion = reparacion
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return presupuesto, nil
}

// Delete removes the budget together with its invoice and that invoice's
// payments, mirroring the foreign key cascade.
func (s *presupuestoService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.Get(txCtx, id); err != nil {
			return err
		}
		factura, err := s.factura(txCtx, id)
		if err != nil {
			return err
		}
		if factura != nil {
			if err := s.facturaRepo.DeleteCascade(txCtx, factura.ID); err != nil {
				return apperror.FromDB(err, "Factura no encontrada")
			}
			if err := s.audit.Record(txCtx, AuditEntry{
				UsuarioID: actor,
				Accion:    model.ActionDeleteFactura,
				EntidadID: factura.ID,
				Entidad:   factura.Letra + " " + factura.Numero,
				Detalles:  map[string]any{"presupuesto_id": id, "motivo": "presupuesto eliminado"},
			}); err != nil {
				return err
			}
		}
		return deleteCatalog(txCtx, s.repo, id, "Presupuesto no encontrado")
	})
	return wrapErr(err)
}

func (s *presupuestoService) Aceptar(ctx context.Context, actor, id uuid.UUID) (*model.Presupuesto, error) {
	var presupuesto *model.Presupuesto
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		presupuesto, err = s.Get(txCtx, id)
		if err != nil {
			return err
		}
		if presupuesto.Aceptado {
			return nil
		}
		presupuesto.Aceptado = true
		if err := saveCatalog(txCtx, s.repo, presupuesto, false); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UsuarioID: actor,
			Accion:    model.ActionAceptarPresup,
			EntidadID: presupuesto.ID,
			Entidad:   "presupuesto",
			Detalles:  map[string]any{"reparacion_id": presupuesto.ReparacionID, "monto_total": presupuesto.MontoTotal},
		})
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return presupuesto, nil
}

// factura returns the invoice issued for the budget, or nil.
func (s *presupuestoService) factura(ctx context.Context, presupuestoID uuid.UUID) (*model.Factura, error) {
	factura, err := s.facturaRepo.FindByPresupuestoID(ctx, presupuestoID, uuid.Nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return factura, nil
}

func normalizeMontoPresupuesto(m *decimal.Decimal) (*decimal.Decimal, error) {
	if m == nil {
		return nil, nil
	}
	if m.IsNegative() {
		return nil, apperror.NewValidation("El monto total no puede ser negativo")
	}
	if !m.Equal(m.Round(2)) {
		return nil, apperror.NewValidation("El monto total admite hasta dos decimales")
	}
	v := m.Round(2)
	return &v, nil
}
