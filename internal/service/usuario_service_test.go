package service

import (
	"testing"
	"time"

	"taller/internal/apperror"
	"taller/internal/authz"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsuarioService(t *testing.T, f *fixture) (UsuarioService, *authz.TokenIssuer) {
	t.Helper()

	issuer := authz.NewTokenIssuer("test-secret", time.Hour)
	svc := NewUsuarioService(
		repository.NewUsuarioRepository(f.db),
		issuer,
		authz.NewResolver(authz.DefaultTable()),
		repository.NewTransactionManager(f.db),
	)
	return svc, issuer
}

func TestUsuarioService_Login(t *testing.T) {
	f := newFixture(t)
	svc, issuer := newUsuarioService(t, f)

	u, err := svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "marta", Tipo: "Tecnico", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, model.TipoTecnico, u.Tipo)
	assert.NotEqual(t, "secreto1", u.Password)

	res, err := svc.Login(f.ctx, LoginRequest{Nombre: " marta ", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.Usuario.ID)
	assert.Contains(t, res.Permisos, string(authz.ReparacionesGestionar))
	assert.NotContains(t, res.Permisos, string(authz.FacturasGestionar))

	claims, err := issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, model.TipoTecnico, claims.Tipo)

	_, err = svc.Login(f.ctx, LoginRequest{Nombre: "marta", Password: "otra"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = svc.Login(f.ctx, LoginRequest{Nombre: "nadie", Password: "secreto1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestUsuarioService_CRUD(t *testing.T) {
	f := newFixture(t)
	svc, _ := newUsuarioService(t, f)

	admin, err := svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "admin", Tipo: model.TipoAdministrador, Password: "admin123"})
	require.NoError(t, err)

	_, err = svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "admin", Tipo: model.TipoUsuario, Password: "123456"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "x", Tipo: "gerente", Password: "123456"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	me, err := svc.Me(f.ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, me.Permisos, len(authz.All))

	t.Run("update without password keeps the hash", func(t *testing.T) {
		before := admin.Password
		u, err := svc.Update(f.ctx, admin.ID, UpdateUsuarioRequest{Nombre: "root", Tipo: model.TipoAdministrador})
		require.NoError(t, err)
		assert.Equal(t, before, u.Password)

		_, err = svc.Login(f.ctx, LoginRequest{Nombre: "root", Password: "admin123"})
		assert.NoError(t, err)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		err := svc.Delete(f.ctx, admin.ID, admin.ID)
		assert.True(t, apperror.Is(err, apperror.KindInvalidState))
	})

	t.Run("delete other", func(t *testing.T) {
		other, err := svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "pepe", Tipo: model.TipoUsuario, Password: "123456"})
		require.NoError(t, err)
		require.NoError(t, svc.Delete(f.ctx, admin.ID, other.ID))

		_, total, err := svc.List(f.ctx, pagination.New(1, 10, ""))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := svc.Get(f.ctx, uuid.New())
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestRoleService_ListRoles(t *testing.T) {
	svc := NewRoleService(authz.NewResolver(authz.DefaultTable()))

	roles := svc.ListRoles()
	require.Len(t, roles, 3)
	assert.Equal(t, model.TipoAdministrador, roles[0].Nombre)
	assert.Len(t, roles[0].Permisos, len(authz.All))
	assert.NotContains(t, roles[1].Permisos, string(authz.UsuariosGestionar))
}

func TestAuditService_GetAuditLogs(t *testing.T) {
	f := newFixture(t)
	svc, _ := newUsuarioService(t, f)
	u, err := svc.Create(f.ctx, CreateUsuarioRequest{Nombre: "caja", Tipo: model.TipoUsuario, Password: "123456"})
	require.NoError(t, err)

	rep := f.seedRepuesto(t, "Bisagra", 0)
	_, err = f.stock.RegistrarCompra(f.ctx, u.ID, CreateCompraRequest{RepuestoID: rep.ID, Cantidad: 2})
	require.NoError(t, err)
	_, err = f.stock.AjustarStock(f.ctx, uuid.Nil, AjusteStockRequest{RepuestoID: rep.ID, Tipo: "BAJA", Cantidad: 1})
	require.NoError(t, err)

	logs, total, err := f.audit.GetAuditLogs(f.ctx, pagination.New(1, 10, ""), model.ActionCreateCompra)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "caja", logs[0].Usuario)
	assert.Equal(t, "Bisagra", logs[0].Entidad)

	logs, _, err = f.audit.GetAuditLogs(f.ctx, pagination.New(1, 10, ""), model.ActionAjusteStock)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Sistema", logs[0].Usuario)
}
