package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taller/internal/authz"
	"taller/internal/config"
	"taller/internal/model"
	"taller/internal/repository"
	"taller/internal/service"
	"taller/internal/testutil"
	"taller/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
	Details    map[string]any  `json:"details"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	tokens map[string]string // by tipo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		CORSOrigins:        "http://localhost:5173",
	}
	db := testutil.NewDB(t)
	log := zaptest.NewLogger(t)
	// Run is not started; Publish drops events once the queue is full
	hub := websocket.NewHub(log)

	api := &testAPI{t: t, router: New(cfg, db, log, hub), db: db, tokens: map[string]string{}}

	usuarios := service.NewUsuarioService(
		repository.NewUsuarioRepository(db),
		authz.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL()),
		authz.NewResolver(authz.DefaultTable()),
		repository.NewTransactionManager(db),
	)
	for _, tipo := range []string{model.TipoAdministrador, model.TipoUsuario, model.TipoTecnico} {
		_, err := usuarios.Create(context.Background(), service.CreateUsuarioRequest{Nombre: tipo, Tipo: tipo, Password: "secreto"})
		require.NoError(t, err)

		w := api.do(http.MethodPost, "/api/login", "", gin.H{"nombre": tipo, "password": "secreto"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var login service.LoginResponse
		api.decode(w, &login)
		api.tokens[tipo] = login.Token
	}
	return api
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) as(tipo string) string {
	return a.tokens[tipo]
}

// decode unwraps the envelope into out and returns it.
func (a *testAPI) decode(w *httptest.ResponseRecorder, out any) envelope {
	a.t.Helper()

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env
}

// create posts body as administrador and returns the new id.
func (a *testAPI) create(path string, body any) string {
	a.t.Helper()

	w := a.do(http.MethodPost, path, a.as(model.TipoAdministrador), body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID string `json:"id"`
	}
	a.decode(w, &out)
	require.NotEmpty(a.t, out.ID)
	return out.ID
}

func requireDecimal(t *testing.T, expected string, actual any) {
	t.Helper()

	var raw string
	switch v := actual.(type) {
	case string:
		raw = v
	case json.Number:
		raw = v.String()
	case float64:
		raw = decimal.NewFromFloat(v).String()
	default:
		t.Fatalf("unexpected decimal value %#v", actual)
	}
	got, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(expected).Equal(got), "expected %s, got %s", expected, raw)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "OK")
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	t.Run("sets the token cookie", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/login", "", gin.H{"nombre": "usuario", "password": "secreto"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=")

		var res service.LoginResponse
		api.decode(w, &res)
		assert.Equal(t, model.TipoUsuario, res.Usuario.Tipo)
		assert.Contains(t, res.Permisos, string(authz.FacturasGestionar))
		assert.NotContains(t, w.Body.String(), "secreto")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/login", "", gin.H{"nombre": "usuario", "password": "otra"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := api.decode(w, nil)
		assert.Equal(t, "UNAUTHORIZED", env.Code)
		assert.Equal(t, "Usuario o contraseña incorrectos", env.Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/login", "", "{nombre")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/login", "", gin.H{})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := api.decode(w, nil)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
		assert.Equal(t, "required", env.Details["nombre"])
		assert.Equal(t, "required", env.Details["password"])
	})
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/me", api.as(model.TipoTecnico), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me service.MeResponse
	api.decode(w, &me)
	assert.Equal(t, "tecnico", me.Usuario.Nombre)
	assert.Contains(t, me.Permisos, string(authz.StockVer))
	assert.NotContains(t, me.Permisos, string(authz.FacturasVer))

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/me", "", nil).Code)
}

func TestPermissions(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		tipo   string
		status int
	}{
		{"tecnico cannot read invoices", http.MethodGet, "/api/facturas", model.TipoTecnico, http.StatusForbidden},
		{"usuario reads invoices", http.MethodGet, "/api/facturas", model.TipoUsuario, http.StatusOK},
		{"usuario cannot adjust stock", http.MethodPost, "/api/historial-stock/ajustes", model.TipoUsuario, http.StatusForbidden},
		{"usuario cannot read audit", http.MethodGet, "/api/auditoria", model.TipoUsuario, http.StatusForbidden},
		{"administrador reads audit", http.MethodGet, "/api/auditoria", model.TipoAdministrador, http.StatusOK},
		{"tecnico reads stock ledger", http.MethodGet, "/api/historial-stock", model.TipoTecnico, http.StatusOK},
		{"usuario cannot manage users", http.MethodGet, "/api/usuarios", model.TipoUsuario, http.StatusForbidden},
		{"administrador lists roles", http.MethodGet, "/api/roles", model.TipoAdministrador, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.do(tc.method, tc.path, api.as(tc.tipo), nil)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestClientes_ValidationAndIDs(t *testing.T) {
	api := newTestAPI(t)
	admin := api.as(model.TipoAdministrador)

	w := api.do(http.MethodPost, "/api/clientes", admin, gin.H{"nombre": "Ana", "apellido": "Pérez", "dni": "1", "email": "no-es-mail"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "email", api.decode(w, nil).Details["email"])

	api.create("/api/clientes", gin.H{"nombre": "Ana", "apellido": "Pérez", "dni": "1"})
	w = api.do(http.MethodPost, "/api/clientes", admin, gin.H{"nombre": "Eva", "apellido": "Gómez", "dni": "1"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CONFLICT", api.decode(w, nil).Code)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/clientes/no-uuid", admin, nil).Code)
	w = api.do(http.MethodGet, "/api/clientes/00000000-0000-0000-0000-000000000001", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", api.decode(w, nil).Code)

	w = api.do(http.MethodGet, "/api/clientes?search=P%C3%89REZ&limit=5", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []model.Cliente `json:"items"`
		Total int64           `json:"total"`
		Limit int             `json:"limit"`
	}
	api.decode(w, &page)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)

	// accents are significant
	w = api.do(http.MethodGet, "/api/clientes?search=perez", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(w, &page)
	assert.EqualValues(t, 0, page.Total)
}

// Repair to paid invoice through the HTTP surface.
func TestBillingFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.as(model.TipoAdministrador)

	clienteID := api.create("/api/clientes", gin.H{"nombre": "Ana", "apellido": "Pérez", "dni": "30111222"})
	equipoID := api.create("/api/equipos", gin.H{"cliente_id": clienteID, "tipo": "Notebook", "numero_serie": "SN-1"})
	tecnicoID := api.create("/api/tecnicos", gin.H{"nombre": "Luis", "apellido": "Díaz"})
	reparacionID := api.create("/api/reparaciones", gin.H{
		"equipo_id": equipoID, "tecnico_id": tecnicoID, "descripcion": "No enciende",
	})
	presupuestoID := api.create("/api/presupuestos", gin.H{"reparacion_id": reparacionID, "monto_total": 1000})
	medioID := api.create("/api/medios-cobro", gin.H{"nombre": "Efectivo"})

	factura := gin.H{"presupuesto_id": presupuestoID, "numero": "0001-00000001", "letra": "B", "monto_total": "1000"}

	// not accepted yet
	w := api.do(http.MethodPost, "/api/facturas", admin, factura)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE", api.decode(w, nil).Code)

	w = api.do(http.MethodPatch, "/api/presupuestos/"+presupuestoID+"/aceptar", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// repair still pendiente
	w = api.do(http.MethodPost, "/api/facturas", admin, factura)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "pendiente", api.decode(w, nil).Details["estado"])

	w = api.do(http.MethodPut, "/api/reparaciones/"+reparacionID, admin, gin.H{
		"equipo_id": equipoID, "tecnico_id": tecnicoID, "descripcion": "No enciende", "estado": " Finalizada ",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	facturaID := api.create("/api/facturas", factura)

	w = api.do(http.MethodPost, "/api/cobros", admin, gin.H{"factura_id": facturaID, "monto": "400", "medio_cobro_id": medioID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cobro map[string]any
	api.decode(w, &cobro)
	requireDecimal(t, "600", cobro["saldo_pendiente"])

	w = api.do(http.MethodPost, "/api/cobros", admin, gin.H{"factura_id": facturaID, "monto": "600.01", "medio_cobro_id": medioID})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := api.decode(w, nil)
	assert.Equal(t, "INVALID_STATE", env.Code)
	requireDecimal(t, "600", env.Details["saldo_pendiente"])

	w = api.do(http.MethodGet, "/api/facturas/"+facturaID+"/saldo", api.as(model.TipoUsuario), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var saldo map[string]any
	api.decode(w, &saldo)
	requireDecimal(t, "400", saldo["total_cobrado"])
	requireDecimal(t, "600", saldo["saldo_pendiente"])

	w = api.do(http.MethodGet, "/api/facturas/"+facturaID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detalle struct {
		Cobros []model.Cobro `json:"cobros"`
	}
	api.decode(w, &detalle)
	assert.Len(t, detalle.Cobros, 1)

	w = api.do(http.MethodGet, "/api/cobros?factura_id="+facturaID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/cobros?factura_id=x", admin, nil).Code)

	w = api.do(http.MethodGet, "/api/estadisticas", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	api.decode(w, &stats)
	requireDecimal(t, "1000", stats["total_facturado"])
	requireDecimal(t, "400", stats["total_cobrado"])

	w = api.do(http.MethodGet, "/api/auditoria?accion="+model.ActionCreateCobro, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audit struct {
		Total int64 `json:"total"`
	}
	api.decode(w, &audit)
	assert.EqualValues(t, 1, audit.Total)
}

func TestStockFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.as(model.TipoAdministrador)

	repuestoID := api.create("/api/repuestos", gin.H{"nombre": "Fuente 65W", "stock": 5, "costo_base": "20.50"})

	w := api.do(http.MethodPost, "/api/historial-stock/ajustes", admin, gin.H{"repuesto_id": repuestoID, "tipo": "VENTA", "cantidad": 10})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_STATE", api.decode(w, nil).Code)

	w = api.do(http.MethodPost, "/api/compras", admin, gin.H{"repuesto_id": repuestoID, "cantidad": 3, "costo_unitario": "18"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var compra service.CompraResponse
	api.decode(w, &compra)
	assert.Equal(t, 5, compra.Movimiento.StockAnterior)
	assert.Equal(t, 8, compra.Movimiento.StockNuevo)

	w = api.do(http.MethodGet, "/api/historial-stock?repuesto_id="+repuestoID, api.as(model.TipoTecnico), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger struct {
		Items []model.HistorialStock `json:"items"`
		Total int64                  `json:"total"`
	}
	api.decode(w, &ledger)
	assert.EqualValues(t, 2, ledger.Total)

	w = api.do(http.MethodGet, "/api/historial-stock?tipo_mov=compra", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	api.decode(w, &ledger)
	assert.EqualValues(t, 1, ledger.Total)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/historial-stock?desde=ayer", admin, nil).Code)

	// stock is not editable through the catalog
	w = api.do(http.MethodPut, "/api/repuestos/"+repuestoID, admin, gin.H{"nombre": "Fuente 65W", "costo_base": "21", "stock": 100})
	require.Equal(t, http.StatusOK, w.Code)
	var repuesto model.Repuesto
	api.decode(w, &repuesto)
	assert.Equal(t, 8, repuesto.Stock)
}
