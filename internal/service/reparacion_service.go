package service

import (
	"context"
	"strings"

	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReparacionRequest struct {
	EquipoID    uuid.UUID `json:"equipo_id" validate:"required"`
	TecnicoID   uuid.UUID `json:"tecnico_id" validate:"required"`
	Descripcion string    `json:"descripcion" validate:"required"`
	Fecha       string    `json:"fecha"`                  // optional, defaults to today
	Estado      string    `json:"estado" validate:"max=30"` // free text, defaults to pendiente
}

// ReparacionFilter narrows the repair listing. Empty fields are ignored.
type ReparacionFilter struct {
	Estado    string
	EquipoID  string
	TecnicoID string
}

type ReparacionService interface {
	List(ctx context.Context, p pagination.Params, f ReparacionFilter) ([]model.Reparacion, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Reparacion, error)
	Create(ctx context.Context, req ReparacionRequest) (*model.Reparacion, error)
	Update(ctx context.Context, id uuid.UUID, req ReparacionRequest) (*model.Reparacion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reparacionService struct {
	repo        repository.ReparacionRepository
	equipoRepo  repository.CatalogRepository[model.Equipo]
	tecnicoRepo repository.CatalogRepository[model.Tecnico]
	txManager   repository.TransactionManager
}

func NewReparacionService(
	repo repository.ReparacionRepository,
	equipoRepo repository.CatalogRepository[model.Equipo],
	tecnicoRepo repository.CatalogRepository[model.Tecnico],
	txManager repository.TransactionManager,
) ReparacionService {
	return &reparacionService{repo: repo, equipoRepo: equipoRepo, tecnicoRepo: tecnicoRepo, txManager: txManager}
}

func (s *reparacionService) List(ctx context.Context, p pagination.Params, f ReparacionFilter) ([]model.Reparacion, int64, error) {
	scopes := []repository.Scope{
		repository.WhereEq("equipo_id", f.EquipoID),
		repository.WhereEq("tecnico_id", f.TecnicoID),
	}
	if estado := strings.ToLower(strings.TrimSpace(f.Estado)); estado != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("LOWER(TRIM(estado)) = ?", estado)
		})
	}
	return listCatalog[model.Reparacion](ctx, s.repo, p, scopes...)
}

func (s *reparacionService) Get(ctx context.Context, id uuid.UUID) (*model.Reparacion, error) {
	return findOrNotFound[model.Reparacion](ctx, s.repo, id, "Reparación no encontrada")
}

func (s *reparacionService) Create(ctx context.Context, req ReparacionRequest) (*model.Reparacion, error) {
	return s.save(ctx, &model.Reparacion{}, req, true)
}

func (s *reparacionService) Update(ctx context.Context, id uuid.UUID, req ReparacionRequest) (*model.Reparacion, error) {
	reparacion, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, reparacion, req, false)
}

func (s *reparacionService) save(ctx context.Context, reparacion *model.Reparacion, req ReparacionRequest, create bool) (*model.Reparacion, error) {
	if err := requireText(&req.Descripcion, "descripcion"); err != nil {
		return nil, err
	}
	def := reparacion.Fecha
	if create {
		def = nowUTC()
	}
	fecha, err := parseFecha(req.Fecha, def)
	if err != nil {
		return nil, err
	}
	estado := strings.TrimSpace(req.Estado)
	if estado == "" {
		estado = model.EstadoPendiente
		if !create {
			estado = reparacion.Estado
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		equipo, err := findOrNotFound[model.Equipo](txCtx, s.equipoRepo, req.EquipoID, "Equipo no encontrado")
		if err != nil {
			return err
		}
		tecnico, err := findOrNotFound[model.Tecnico](txCtx, s.tecnicoRepo, req.TecnicoID, "Técnico no encontrado")
		if err != nil {
			return err
		}

		reparacion.EquipoID = equipo.ID
		reparacion.TecnicoID = tecnico.ID
		reparacion.Descripcion = req.Descripcion
		reparacion.Fecha = fecha
		reparacion.Estado = estado
		if err := saveCatalog[model.Reparacion](txCtx, s.repo, reparacion, create); err != nil {
			return err
		}
		reparacion.Equipo = equipo
		reparacion.Tecnico = tecnico
		return nil
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return reparacion, nil
}

func (s *reparacionService) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog[model.Reparacion](ctx, s.repo, id, "Reparación no encontrada")
}
