package repository

import (
	"context"
	"testing"

	"taller/internal/model"
	"taller/internal/testutil"
	"taller/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCatalogRepository_List(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClienteRepository(db)
	ctx := context.Background()

	for _, c := range []model.Cliente{
		{Nombre: "Ana", Apellido: "Pérez", DNI: "1"},
		{Nombre: "Juan", Apellido: "Perezoso", DNI: "2"},
		{Nombre: "Eva", Apellido: "50% Gómez", DNI: "3"},
	} {
		c := c
		require.NoError(t, repo.Create(ctx, &c))
	}

	cases := []struct {
		search string
		total  int64
	}{
		{"", 3},
		{"PEREZ", 1},
		{"perez", 1},
		{"pérez", 1},
		{"perezo", 1},
		{"50%", 1},
		{"%", 1},
		{"_", 0},
	}
	for _, tc := range cases {
		t.Run("search "+tc.search, func(t *testing.T) {
			items, total, err := repo.List(ctx, pagination.New(1, 10, tc.search))
			require.NoError(t, err)
			assert.Equal(t, tc.total, total)
			assert.Len(t, items, int(tc.total))
		})
	}

	t.Run("pages", func(t *testing.T) {
		items, total, err := repo.List(ctx, pagination.New(2, 2, ""))
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, items, 1)
	})
}

func TestCatalogRepository_Scopes(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	clientes := NewClienteRepository(db)
	equipos := NewEquipoRepository(db)

	ana := &model.Cliente{Nombre: "Ana", Apellido: "Pérez", DNI: "1"}
	eva := &model.Cliente{Nombre: "Eva", Apellido: "Gómez", DNI: "2"}
	require.NoError(t, clientes.Create(ctx, ana))
	require.NoError(t, clientes.Create(ctx, eva))
	require.NoError(t, equipos.Create(ctx, &model.Equipo{ClienteID: ana.ID, Tipo: "Notebook", NumeroSerie: "A"}))
	require.NoError(t, equipos.Create(ctx, &model.Equipo{ClienteID: eva.ID, Tipo: "Impresora", NumeroSerie: "B"}))

	items, total, err := equipos.List(ctx, pagination.New(1, 10, ""), WhereEq("cliente_id", ana.ID.String()))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Cliente)
	assert.Equal(t, "Ana", items[0].Cliente.Nombre)

	_, total, err = equipos.List(ctx, pagination.New(1, 10, ""), WhereEq("cliente_id", ""))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestCatalogRepository_ExistsAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClienteRepository(db)
	ctx := context.Background()

	ana := &model.Cliente{Nombre: "Ana", Apellido: "Pérez", DNI: "1"}
	require.NoError(t, repo.Create(ctx, ana))

	taken, err := repo.Exists(ctx, "dni", "1", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.Exists(ctx, "dni", "1", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own row is excluded")

	require.NoError(t, repo.Delete(ctx, ana.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ana.ID), gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, ana.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
