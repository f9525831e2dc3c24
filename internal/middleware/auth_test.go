package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taller/internal/authz"
	"taller/internal/model"
	"taller/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(auth *Auth, perms ...authz.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", auth.Authenticate(), auth.RequirePermission(perms...), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "nombre": UserNombre(c), "tipo": UserRole(c)})
	})
	return r
}

func tokenFor(t *testing.T, issuer *authz.TokenIssuer, tipo string) (string, uuid.UUID) {
	t.Helper()

	u := &model.Usuario{Nombre: "ana", Tipo: tipo}
	u.ID = uuid.New()
	token, _, err := issuer.Issue(u)
	require.NoError(t, err)
	return token, u.ID
}

func TestAuthenticate(t *testing.T) {
	issuer := authz.NewTokenIssuer("secret", time.Hour)
	auth := NewAuth(issuer, authz.NewResolver(authz.DefaultTable()), false)
	router := newRouter(auth)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "UNAUTHORIZED", body.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		token, id := tokenFor(t, issuer, model.TipoUsuario)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
	})

	t.Run("cookie", func(t *testing.T) {
		token, _ := tokenFor(t, issuer, model.TipoTecnico)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("foreign signature", func(t *testing.T) {
		token, _ := tokenFor(t, authz.NewTokenIssuer("other", time.Hour), model.TipoUsuario)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	issuer := authz.NewTokenIssuer("secret", time.Hour)
	auth := NewAuth(issuer, authz.NewResolver(authz.DefaultTable()), false)
	router := newRouter(auth, authz.FacturasGestionar)

	cases := []struct {
		tipo   string
		status int
	}{
		{model.TipoAdministrador, http.StatusOK},
		{model.TipoUsuario, http.StatusOK},
		{model.TipoTecnico, http.StatusForbidden},
		{"invitado", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.tipo, func(t *testing.T) {
			token, _ := tokenFor(t, issuer, tc.tipo)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "FORBIDDEN")
			}
		})
	}
}

func TestTokenCookie(t *testing.T) {
	auth := NewAuth(authz.NewTokenIssuer("secret", time.Hour), authz.NewResolver(nil), true)
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	auth.SetTokenCookie(c, "abc", time.Now().Add(time.Hour))

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=abc")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=None")
}
