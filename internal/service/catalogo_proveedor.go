package service

import (
	"context"
	"strconv"
	"strings"

	"taller/internal/apperror"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProveedorRequest struct {
	RazonSocial string `json:"razon_social" validate:"required,max=255"`
	CUIT        string `json:"cuit" validate:"required,max=20"`
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Telefono    string `json:"telefono" validate:"max=50"`
	Direccion   string `json:"direccion" validate:"max=255"`
	Activo      *bool  `json:"activo"` // defaults to true
}

type ProveedorRepuestoRequest struct {
	RepuestoID uuid.UUID       `json:"repuesto_id" validate:"required"`
	Precio     decimal.Decimal `json:"precio" validate:"gte=0"`
	Activo     *bool           `json:"activo"` // defaults to true
}

type ProveedorService interface {
	List(ctx context.Context, p pagination.Params, activo string) ([]model.Proveedor, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	Create(ctx context.Context, req ProveedorRequest) (*model.Proveedor, error)
	Update(ctx context.Context, id uuid.UUID, req ProveedorRequest) (*model.Proveedor, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListRepuestos(ctx context.Context, proveedorID uuid.UUID) ([]model.ProveedorRepuesto, error)
	AddRepuesto(ctx context.Context, proveedorID uuid.UUID, req ProveedorRepuestoRequest) (*model.ProveedorRepuesto, error)
	RemoveRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) error
}

type proveedorService struct {
	repo         repository.ProveedorRepository
	repuestoRepo repository.RepuestoRepository
	txManager    repository.TransactionManager
}

func NewProveedorService(repo repository.ProveedorRepository, repuestoRepo repository.RepuestoRepository, txManager repository.TransactionManager) ProveedorService {
	return &proveedorService{repo: repo, repuestoRepo: repuestoRepo, txManager: txManager}
}

// List filters by activo when it parses as a boolean.
func (s *proveedorService) List(ctx context.Context, p pagination.Params, activo string) ([]model.Proveedor, int64, error) {
	var scopes []repository.Scope
	if v, err := strconv.ParseBool(activo); err == nil {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("activo = ?", v) })
	}
	return listCatalog[model.Proveedor](ctx, s.repo, p, scopes...)
}

func (s *proveedorService) Get(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	return findOrNotFound[model.Proveedor](ctx, s.repo, id, "Proveedor no encontrado")
}

func (s *proveedorService) Create(ctx context.Context, req ProveedorRequest) (*model.Proveedor, error) {
	return s.save(ctx, &model.Proveedor{}, req, true)
}

func (s *proveedorService) Update(ctx context.Context, id uuid.UUID, req ProveedorRequest) (*model.Proveedor, error) {
	proveedor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, proveedor, req, false)
}

func (s *proveedorService) save(ctx context.Context, proveedor *model.Proveedor, req ProveedorRequest, create bool) (*model.Proveedor, error) {
	if err := requireText(&req.RazonSocial, "razon_social"); err != nil {
		return nil, err
	}
	if err := requireText(&req.CUIT, "cuit"); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := ensureUnique[model.Proveedor](txCtx, s.repo, "cuit", req.CUIT, proveedor.ID, "Ya existe un proveedor con ese CUIT"); err != nil {
			return err
		}
		proveedor.RazonSocial = req.RazonSocial
		proveedor.CUIT = req.CUIT
		proveedor.Email = strings.ToLower(strings.TrimSpace(req.Email))
		proveedor.Telefono = strings.TrimSpace(req.Telefono)
		proveedor.Direccion = strings.TrimSpace(req.Direccion)
		switch {
		case req.Activo != nil:
			proveedor.Activo = *req.Activo
		case create:
			proveedor.Activo = true
		}
		return saveCatalog[model.Proveedor](txCtx, s.repo, proveedor, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return proveedor, nil
}

// Delete removes the supplier and its part links.
func (s *proveedorService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteRepuestosByProveedorID(txCtx, id); err != nil {
			return apperror.NewInternal(err)
		}
		return deleteCatalog[model.Proveedor](txCtx, s.repo, id, "Proveedor no encontrado")
	})
	return wrapErr(err)
}

func (s *proveedorService) ListRepuestos(ctx context.Context, proveedorID uuid.UUID) ([]model.ProveedorRepuesto, error) {
	if _, err := s.Get(ctx, proveedorID); err != nil {
		return nil, err
	}
	links, err := s.repo.ListRepuestos(ctx, proveedorID)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return links, nil
}

// AddRepuesto links a part to the supplier, updating price and state when
// the link already exists.
func (s *proveedorService) AddRepuesto(ctx context.Context, proveedorID uuid.UUID, req ProveedorRepuestoRequest) (*model.ProveedorRepuesto, error) {
	if req.Precio.IsNegative() {
		return nil, apperror.NewValidation("El precio no puede ser negativo")
	}

	var link *model.ProveedorRepuesto
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.Get(txCtx, proveedorID); err != nil {
			return err
		}
		if _, err := findOrNotFound[model.Repuesto](txCtx, s.repuestoRepo, req.RepuestoID, "Repuesto no encontrado"); err != nil {
			return err
		}

		activo := true
		if req.Activo != nil {
			activo = *req.Activo
		}
		if err := s.repo.UpsertRepuesto(txCtx, &model.ProveedorRepuesto{
			ProveedorID: proveedorID,
			RepuestoID:  req.RepuestoID,
			Precio:      req.Precio.Round(2),
			Activo:      activo,
		}); err != nil {
			return apperror.NewInternal(err)
		}

		var err error
		link, err = s.repo.FindRepuesto(txCtx, proveedorID, req.RepuestoID)
		if err != nil {
			return apperror.NewInternal(err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return link, nil
}

func (s *proveedorService) RemoveRepuesto(ctx context.Context, proveedorID, repuestoID uuid.UUID) error {
	if err := s.repo.DeleteRepuesto(ctx, proveedorID, repuestoID); err != nil {
		return apperror.FromDB(err, "El proveedor no tiene asociado ese repuesto")
	}
	return nil
}
