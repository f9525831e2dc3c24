package service

import (
	"context"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRepuestoRequest struct {
	Nombre    string          `json:"nombre" validate:"required,max=255"`
	Stock     int             `json:"stock" validate:"gte=0"`
	CostoBase decimal.Decimal `json:"costo_base" validate:"gte=0"`
}

// UpdateRepuestoRequest cannot touch stock; stock moves only through the ledger.
type UpdateRepuestoRequest struct {
	Nombre    string          `json:"nombre" validate:"required,max=255"`
	CostoBase decimal.Decimal `json:"costo_base" validate:"gte=0"`
}

type RepuestoService interface {
	List(ctx context.Context, p pagination.Params) ([]model.Repuesto, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Repuesto, error)
	Create(ctx context.Context, actor uuid.UUID, req CreateRepuestoRequest) (*model.Repuesto, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRepuestoRequest) (*model.Repuesto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repuestoService struct {
	repo      repository.RepuestoRepository
	stock     StockService
	txManager repository.TransactionManager
}

func NewRepuestoService(repo repository.RepuestoRepository, stock StockService, txManager repository.TransactionManager) RepuestoService {
	return &repuestoService{repo: repo, stock: stock, txManager: txManager}
}

func (s *repuestoService) List(ctx context.Context, p pagination.Params) ([]model.Repuesto, int64, error) {
	return listCatalog[model.Repuesto](ctx, s.repo, p)
}

func (s *repuestoService) Get(ctx context.Context, id uuid.UUID) (*model.Repuesto, error) {
	return findOrNotFound[model.Repuesto](ctx, s.repo, id, "Repuesto no encontrado")
}

// Create inserts the part with zero stock; a positive initial stock is
// recorded as an AJUSTE movement so the ledger explains every unit.
func (s *repuestoService) Create(ctx context.Context, actor uuid.UUID, req CreateRepuestoRequest) (*model.Repuesto, error) {
	if err := requireText(&req.Nombre, "nombre"); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, apperror.NewValidation("El stock inicial no puede ser negativo")
	}
	if req.CostoBase.IsNegative() {
		return nil, apperror.NewValidation("El costo base no puede ser negativo")
	}

	repuesto := &model.Repuesto{Nombre: req.Nombre, CostoBase: req.CostoBase.Round(2)}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := ensureUnique[model.Repuesto](txCtx, s.repo, "nombre", req.Nombre, uuid.Nil, "Ya existe un repuesto con ese nombre"); err != nil {
			return err
		}
		if err := saveCatalog[model.Repuesto](txCtx, s.repo, repuesto, true); err != nil {
			return err
		}
		if req.Stock == 0 {
			return nil
		}
		res, err := s.stock.AjustarStock(txCtx, actor, AjusteStockRequest{
			RepuestoID: repuesto.ID,
			Tipo:       string(model.MovAjuste),
			Cantidad:   req.Stock,
			Motivo:     "stock inicial",
		})
		if err != nil {
			return err
		}
		repuesto.Stock = res.Movimiento.StockNuevo
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return repuesto, nil
}

func (s *repuestoService) Update(ctx context.Context, id uuid.UUID, req UpdateRepuestoRequest) (*model.Repuesto, error) {
	if err := requireText(&req.Nombre, "nombre"); err != nil {
		return nil, err
	}
	if req.CostoBase.IsNegative() {
		return nil, apperror.NewValidation("El costo base no puede ser negativo")
	}

	var repuesto *model.Repuesto
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		repuesto, err = s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return apperror.FromDB(err, "Repuesto no encontrado")
		}
		if err := ensureUnique[model.Repuesto](txCtx, s.repo, "nombre", req.Nombre, id, "Ya existe un repuesto con ese nombre"); err != nil {
			return err
		}
		repuesto.Nombre = req.Nombre
		repuesto.CostoBase = req.CostoBase.Round(2)
		return saveCatalog[model.Repuesto](txCtx, s.repo, repuesto, false)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return repuesto, nil
}

func (s *repuestoService) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog[model.Repuesto](ctx, s.repo, id, "Repuesto no encontrado")
}
