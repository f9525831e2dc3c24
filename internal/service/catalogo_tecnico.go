package service

import (
	"context"
	"strings"

	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
)

type TecnicoRequest struct {
	Nombre            string     `json:"nombre" validate:"required,max=100"`
	Apellido          string     `json:"apellido" validate:"required,max=100"`
	Telefono          string     `json:"telefono" validate:"max=50"`
	EspecializacionID *uuid.UUID `json:"especializacion_id"`
}

// NombreRequest is the payload of the single-column lookups
// (especializaciones, medios de cobro).
type NombreRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
}

type TecnicoService interface {
	List(ctx context.Context, p pagination.Params, especializacionID string) ([]model.Tecnico, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tecnico, error)
	Create(ctx context.Context, req TecnicoRequest) (*model.Tecnico, error)
	Update(ctx context.Context, id uuid.UUID, req TecnicoRequest) (*model.Tecnico, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LookupService manages a catalog identified only by a unique nombre.
type LookupService[T any] interface {
	List(ctx context.Context, p pagination.Params) ([]T, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, req NombreRequest) (*T, error)
	Update(ctx context.Context, id uuid.UUID, req NombreRequest) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tecnicoService struct {
	repo      repository.CatalogRepository[model.Tecnico]
	espRepo   repository.CatalogRepository[model.Especializacion]
	txManager repository.TransactionManager
}

func NewTecnicoService(
	repo repository.CatalogRepository[model.Tecnico],
	espRepo repository.CatalogRepository[model.Especializacion],
	txManager repository.TransactionManager,
) TecnicoService {
	return &tecnicoService{repo: repo, espRepo: espRepo, txManager: txManager}
}

func (s *tecnicoService) List(ctx context.Context, p pagination.Params, especializacionID string) ([]model.Tecnico, int64, error) {
	return listCatalog(ctx, s.repo, p, repository.WhereEq("especializacion_id", especializacionID))
}

func (s *tecnicoService) Get(ctx context.Context, id uuid.UUID) (*model.Tecnico, error) {
	return findOrNotFound(ctx, s.repo, id, "Técnico no encontrado")
}

func (s *tecnicoService) Create(ctx context.Context, req TecnicoRequest) (*model.Tecnico, error) {
	return s.save(ctx, &model.Tecnico{}, req, true)
}

func (s *tecnicoService) Update(ctx context.Context, id uuid.UUID, req TecnicoRequest) (*model.Tecnico, error) {
	tecnico, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, tecnico, req, false)
}

func (s *tecnicoService) save(ctx context.Context, tecnico *model.Tecnico, req TecnicoRequest, create bool) (*model.Tecnico, error) {
	if err := requireText(&req.Nombre, "nombre"); err != nil {
		return nil, err
	}
	if err := requireText(&req.Apellido, "apellido"); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		tecnico.Especializacion = nil
		if req.EspecializacionID != nil && *req.EspecializacionID != uuid.Nil {
			esp, err := findOrNotFound(txCtx, s.espRepo, *req.EspecializacionID, "Especialización no encontrada")
			if err != nil {
				return err
			}
			tecnico.Especializacion = esp
		} else {
			req.EspecializacionID = nil
		}

		tecnico.Nombre = req.Nombre
		tecnico.Apellido = req.Apellido
		tecnico.Telefono = strings.TrimSpace(req.Telefono)
		tecnico.EspecializacionID = req.EspecializacionID
		return saveCatalog(txCtx, s.repo, tecnico, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return tecnico, nil
}

func (s *tecnicoService) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog(ctx, s.repo, id, "Técnico no encontrado")
}

// lookupService implements LookupService for any model with a unique nombre.
type lookupService[T any] struct {
	repo      repository.CatalogRepository[T]
	txManager repository.TransactionManager
	newEntity func() *T
	setNombre func(*T, string)
	notFound  string
	duplicate string
}

func NewEspecializacionService(repo repository.CatalogRepository[model.Especializacion], txManager repository.TransactionManager) LookupService[model.Especializacion] {
	return &lookupService[model.Especializacion]{
		repo:      repo,
		txManager: txManager,
		newEntity: func() *model.Especializacion { return &model.Especializacion{} },
		setNombre: func(e *model.Especializacion, n string) { e.Nombre = n },
		notFound:  "Especialización no encontrada",
		duplicate: "Ya existe una especialización con ese nombre",
	}
}

func NewMedioCobroService(repo repository.CatalogRepository[model.MedioCobro], txManager repository.TransactionManager) LookupService[model.MedioCobro] {
	return &lookupService[model.MedioCobro]{
		repo:      repo,
		txManager: txManager,
		newEntity: func() *model.MedioCobro { return &model.MedioCobro{} },
		setNombre: func(m *model.MedioCobro, n string) { m.Nombre = n },
		notFound:  "Medio de cobro no encontrado",
		duplicate: "Ya existe un medio de cobro con ese nombre",
	}
}

func (s *lookupService[T]) List(ctx context.Context, p pagination.Params) ([]T, int64, error) {
	return listCatalog(ctx, s.repo, p)
}

func (s *lookupService[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return findOrNotFound(ctx, s.repo, id, s.notFound)
}

func (s *lookupService[T]) Create(ctx context.Context, req NombreRequest) (*T, error) {
	return s.save(ctx, s.newEntity(), uuid.Nil, req, true)
}

func (s *lookupService[T]) Update(ctx context.Context, id uuid.UUID, req NombreRequest) (*T, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, entity, id, req, false)
}

func (s *lookupService[T]) save(ctx context.Context, entity *T, id uuid.UUID, req NombreRequest, create bool) (*T, error) {
	if err := requireText(&req.Nombre, "nombre"); err != nil {
		return nil, err
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := ensureUnique(txCtx, s.repo, "nombre", req.Nombre, id, s.duplicate); err != nil {
			return err
		}
		s.setNombre(entity, req.Nombre)
		return saveCatalog(txCtx, s.repo, entity, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return entity, nil
}

func (s *lookupService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog(ctx, s.repo, id, s.notFound)
}
