package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taller/internal/apperror"
	"taller/internal/authz"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUsuarioRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Tipo     string `json:"tipo" validate:"required,oneof=administrador tecnico usuario"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateUsuarioRequest leaves the password untouched when it is empty.
type UpdateUsuarioRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=100"`
	Tipo     string `json:"tipo" validate:"required,oneof=administrador tecnico usuario"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

type LoginRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Usuario   model.Usuario `json:"usuario"`
	Permisos  []string      `json:"permisos"`
}

type MeResponse struct {
	Usuario  model.Usuario `json:"usuario"`
	Permisos []string      `json:"permisos"`
}

// UsuarioService covers login and account administration.
type UsuarioService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*MeResponse, error)
	List(ctx context.Context, p pagination.Params) ([]model.Usuario, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	Create(ctx context.Context, req CreateUsuarioRequest) (*model.Usuario, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUsuarioRequest) (*model.Usuario, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
}

type usuarioService struct {
	repo      repository.UsuarioRepository
	issuer    *authz.TokenIssuer
	resolver  authz.Resolver
	txManager repository.TransactionManager
}

func NewUsuarioService(repo repository.UsuarioRepository, issuer *authz.TokenIssuer, resolver authz.Resolver, txManager repository.TransactionManager) UsuarioService {
	return &usuarioService{repo: repo, issuer: issuer, resolver: resolver, txManager: txManager}
}

const msgCredenciales = "Usuario o contraseña incorrectos"

func (s *usuarioService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	usuario, err := s.repo.FindByNombre(ctx, strings.TrimSpace(req.Nombre))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewUnauthorized(msgCredenciales)
		}
		return nil, apperror.NewInternal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.Password), []byte(req.Password)); err != nil {
		return nil, apperror.NewUnauthorized(msgCredenciales)
	}

	token, exp, err := s.issuer.Issue(usuario)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Usuario:   *usuario,
		Permisos:  s.resolver(usuario.Tipo).Sorted(),
	}, nil
}

func (s *usuarioService) Me(ctx context.Context, id uuid.UUID) (*MeResponse, error) {
	usuario, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MeResponse{Usuario: *usuario, Permisos: s.resolver(usuario.Tipo).Sorted()}, nil
}

func (s *usuarioService) List(ctx context.Context, p pagination.Params) ([]model.Usuario, int64, error) {
	return listCatalog[model.Usuario](ctx, s.repo, p)
}

func (s *usuarioService) Get(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	return findOrNotFound[model.Usuario](ctx, s.repo, id, "Usuario no encontrado")
}

func (s *usuarioService) Create(ctx context.Context, req CreateUsuarioRequest) (*model.Usuario, error) {
	if req.Password == "" {
		return nil, apperror.NewValidation("El campo password es obligatorio")
	}
	return s.save(ctx, &model.Usuario{}, req.Nombre, req.Tipo, req.Password, true)
}

func (s *usuarioService) Update(ctx context.Context, id uuid.UUID, req UpdateUsuarioRequest) (*model.Usuario, error) {
	usuario, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, usuario, req.Nombre, req.Tipo, req.Password, false)
}

func (s *usuarioService) save(ctx context.Context, usuario *model.Usuario, nombre, tipo, password string, create bool) (*model.Usuario, error) {
	if err := requireText(&nombre, "nombre"); err != nil {
		return nil, err
	}
	tipo = strings.ToLower(strings.TrimSpace(tipo))
	if !model.ValidTipo(tipo) {
		return nil, apperror.NewValidation("Tipo de usuario inválido: %s", tipo)
	}

	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.NewValidation("La contraseña no es válida")
		}
		usuario.Password = string(hashed)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := ensureUnique[model.Usuario](txCtx, s.repo, "nombre", nombre, usuario.ID, "Ya existe un usuario con ese nombre"); err != nil {
			return err
		}
		usuario.Nombre = nombre
		usuario.Tipo = tipo
		return saveCatalog[model.Usuario](txCtx, s.repo, usuario, create)
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return usuario, nil
}

// Delete refuses to remove the caller's own account.
func (s *usuarioService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if actor == id {
		return apperror.NewInvalidState("No puede eliminar su propio usuario")
	}
	return deleteCatalog[model.Usuario](ctx, s.repo, id, "Usuario no encontrado")
}
