package repository

import (
	"context"
	"errors"
	"testing"

	"taller/internal/model"
	"taller/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTx(t *testing.T) {
	db := testutil.NewDB(t)
	tx := NewTransactionManager(db)
	repo := NewMedioCobroRepository(db)
	ctx := context.Background()

	count := func() int64 {
		var n int64
		require.NoError(t, db.Model(&model.MedioCobro{}).Count(&n).Error)
		return n
	}

	t.Run("commits", func(t *testing.T) {
		err := tx.RunInTx(ctx, func(txCtx context.Context) error {
			return repo.Create(txCtx, &model.MedioCobro{Nombre: "Efectivo"})
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.RunInTx(ctx, func(txCtx context.Context) error {
			require.NoError(t, repo.Create(txCtx, &model.MedioCobro{Nombre: "Cheque"}))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.EqualValues(t, 1, count())
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.RunInTx(ctx, func(outer context.Context) error {
			inner := tx.RunInTx(outer, func(innerCtx context.Context) error {
				return repo.Create(innerCtx, &model.MedioCobro{Nombre: "Transferencia"})
			})
			require.NoError(t, inner)
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.EqualValues(t, 1, count())
	})
}
