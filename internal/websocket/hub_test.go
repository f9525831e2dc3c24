package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taller/internal/authz"
	"taller/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newServer(t *testing.T) (*Hub, *authz.TokenIssuer, *httptest.Server) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	hub := NewHub(zaptest.NewLogger(t))
	issuer := authz.NewTokenIssuer("secret", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, issuer, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, issuer, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestServeWs_BroadcastsEvents(t *testing.T) {
	hub, issuer, srv := newServer(t)

	u := &model.Usuario{Nombre: "ana", Tipo: model.TipoUsuario}
	u.ID = uuid.New()
	token, _, err := issuer.Issue(u)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("cobro.registrado", map[string]string{"factura_id": "f1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "cobro.registrado", msg.Event)
	assert.Equal(t, "f1", msg.Data["factura_id"])
}

func TestServeWs_RejectsBadTokens(t *testing.T) {
	_, _, srv := newServer(t)

	for _, token := range []string{"", "garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestServeWs_ClientRemovedOnClose(t *testing.T) {
	hub, issuer, srv := newServer(t)

	u := &model.Usuario{Nombre: "tec", Tipo: model.TipoTecnico}
	u.ID = uuid.New()
	token, _, err := issuer.Issue(u)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPublish_NeverBlocks(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	done := make(chan struct{})
	go func() {
		// Run is not started, so the queue fills and the rest is dropped
		for i := 0; i < sendBufferSize*2; i++ {
			hub.Publish("stock.actualizado", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
	assert.Len(t, hub.broadcast, sendBufferSize)
}
