package service

import (
	"context"
	"strings"

	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
)

type ClienteRequest struct {
	Nombre    string  `json:"nombre" validate:"required,max=100"`
	Apellido  string  `json:"apellido" validate:"required,max=100"`
	DNI       string  `json:"dni" validate:"required,max=20"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Telefono  string  `json:"telefono" validate:"max=50"`
	Direccion string  `json:"direccion" validate:"max=255"`
}

type EquipoRequest struct {
	ClienteID   uuid.UUID `json:"cliente_id" validate:"required"`
	Tipo        string    `json:"tipo" validate:"required,max=100"`
	Marca       string    `json:"marca" validate:"max=100"`
	Modelo      string    `json:"modelo" validate:"max=100"`
	NumeroSerie string    `json:"numero_serie" validate:"required,max=100"`
}

type ClienteService interface {
	List(ctx context.Context, p pagination.Params) ([]model.Cliente, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	Create(ctx context.Context, req ClienteRequest) (*model.Cliente, error)
	Update(ctx context.Context, id uuid.UUID, req ClienteRequest) (*model.Cliente, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EquipoService interface {
	List(ctx context.Context, p pagination.Params, clienteID string) ([]model.Equipo, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Equipo, error)
	Create(ctx context.Context, req EquipoRequest) (*model.Equipo, error)
	Update(ctx context.Context, id uuid.UUID, req EquipoRequest) (*model.Equipo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo      repository.CatalogRepository[model.Cliente]
	txManager repository.TransactionManager
}

func NewClienteService(repo repository.CatalogRepository[model.Cliente], txManager repository.TransactionManager) ClienteService {
	return &clienteService{repo: repo, txManager: txManager}
}

func (s *clienteService) List(ctx context.Context, p pagination.Params) ([]model.Cliente, int64, error) {
	return listCatalog(ctx, s.repo, p)
}

func (s *clienteService) Get(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return findOrNotFound(ctx, s.repo, id, "Cliente no encontrado")
}

func (s *clienteService) Create(ctx context.Context, req ClienteRequest) (*model.Cliente, error) {
	return s.save(ctx, &model.Cliente{}, req, true)
}

func (s *clienteService) Update(ctx context.Context, id uuid.UUID, req ClienteRequest) (*model.Cliente, error) {
	cliente, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, cliente, req, false)
}

func (s *clienteService) save(ctx context.Context, cliente *model.Cliente, req ClienteRequest, create bool) (*model.Cliente, error) {
	for _, f := range []struct {
		v    *string
		name string
	}{{&req.Nombre, "nombre"}, {&req.Apellido, "apellido"}, {&req.DNI, "dni"}} {
		if err := requireText(f.v, f.name); err != nil {
			return nil, err
		}
	}
	req.Email = optionalText(req.Email)
	if req.Email != nil {
		lower := strings.ToLower(*req.Email)
		req.Email = &lower
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := ensureUnique(txCtx, s.repo, "dni", req.DNI, cliente.ID, "Ya existe un cliente con ese DNI"); err != nil {
			return err
		}
		if req.Email != nil {
			if err := ensureUnique(txCtx, s.repo, "email", *req.Email, cliente.ID, "Ya existe un cliente con ese email"); err != nil {
				return err
			}
		}

		cliente.Nombre = req.Nombre
		cliente.Apellido = req.Apellido
		cliente.DNI = req.DNI
		cliente.Email = req.Email
		cliente.Telefono = strings.TrimSpace(req.Telefono)
		cliente.Direccion = strings.TrimSpace(req.Direccion)
		return saveCatalog(txCtx, s.repo, cliente, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return cliente, nil
}

func (s *clienteService) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog(ctx, s.repo, id, "Cliente no encontrado")
}

type equipoService struct {
	repo        repository.CatalogRepository[model.Equipo]
	clienteRepo repository.CatalogRepository[model.Cliente]
	txManager   repository.TransactionManager
}

func NewEquipoService(
	repo repository.CatalogRepository[model.Equipo],
	clienteRepo repository.CatalogRepository[model.Cliente],
	txManager repository.TransactionManager,
) EquipoService {
	return &equipoService{repo: repo, clienteRepo: clienteRepo, txManager: txManager}
}

func (s *equipoService) List(ctx context.Context, p pagination.Params, clienteID string) ([]model.Equipo, int64, error) {
	return listCatalog(ctx, s.repo, p, repository.WhereEq("cliente_id", clienteID))
}

func (s *equipoService) Get(ctx context.Context, id uuid.UUID) (*model.Equipo, error) {
	return findOrNotFound(ctx, s.repo, id, "Equipo no encontrado")
}

func (s *equipoService) Create(ctx context.Context, req EquipoRequest) (*model.Equipo, error) {
	return s.save(ctx, &model.Equipo{}, req, true)
}

func (s *equipoService) Update(ctx context.Context, id uuid.UUID, req EquipoRequest) (*model.Equipo, error) {
	equipo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, equipo, req, false)
}

func (s *equipoService) save(ctx context.Context, equipo *model.Equipo, req EquipoRequest, create bool) (*model.Equipo, error) {
	if err := requireText(&req.Tipo, "tipo"); err != nil {
		return nil, err
	}
	if err := requireText(&req.NumeroSerie, "numero_serie"); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		cliente, err := findOrNotFound(txCtx, s.clienteRepo, req.ClienteID, "Cliente no encontrado")
		if err != nil {
			return err
		}
		if err := ensureUnique(txCtx, s.repo, "numero_serie", req.NumeroSerie, equipo.ID, "Ya existe un equipo con ese número de serie"); err != nil {
			return err
		}

		equipo.ClienteID = cliente.ID
		equipo.Cliente = cliente
		equipo.Tipo = req.Tipo
		equipo.Marca = strings.TrimSpace(req.Marca)
		equipo.Modelo = strings.TrimSpace(req.Modelo)
		equipo.NumeroSerie = req.NumeroSerie
		return saveCatalog(txCtx, s.repo, equipo, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return equipo, nil
}

func (s *equipoService) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteCatalog(ctx, s.repo, id, "Equipo no encontrado")
}
