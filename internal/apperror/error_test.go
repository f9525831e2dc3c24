package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewValidation("monto"), http.StatusUnprocessableEntity},
		{NewConflict("dup"), http.StatusUnprocessableEntity},
		{NewInvalidState("estado"), http.StatusUnprocessableEntity},
		{NewNotFound("factura"), http.StatusNotFound},
		{NewUnauthorized("credenciales"), http.StatusUnauthorized},
		{NewInternal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), string(tc.err.Kind))
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.Equal(t, internalMessage, err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestWithDetail(t *testing.T) {
	err := NewInvalidState("El monto supera el saldo pendiente").WithDetail("saldo_pendiente", "40.00")
	assert.Equal(t, "40.00", err.Details["saldo_pendiente"])
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("registrar cobro: %w", NewNotFound("Factura no encontrada"))
	got := As(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)

	plain := As(errors.New("unexpected"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestFromDB(t *testing.T) {
	require.NoError(t, FromDB(nil, "x"))

	err := FromDB(gorm.ErrRecordNotFound, "Presupuesto %s no encontrado", "abc")
	require.True(t, Is(err, KindNotFound))
	assert.Equal(t, "Presupuesto abc no encontrado", As(err).Message)

	err = FromDB(gorm.ErrDuplicatedKey, "x")
	assert.True(t, Is(err, KindConflict))

	err = FromDB(errors.New("syntax error"), "x")
	assert.True(t, Is(err, KindInternal))

	conflict := NewConflict("dup")
	assert.Same(t, conflict, FromDB(conflict, "x"))
}
