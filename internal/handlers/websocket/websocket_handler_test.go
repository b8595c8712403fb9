// internal/handlers/websocket/websocket_handler_test.go
package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ws "insurica-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsReportsConnectionCount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub(nil, nil, zap.NewNop())
	h := NewWebSocketHandler(hub, zap.NewNop())

	r := gin.New()
	r.GET("/api/v1/admin/ws/stats", h.Stats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ws/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			TotalConnections int `json:"total_connections"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Zero(t, body.Data.TotalConnections)
}

func TestConnectRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub(nil, nil, zap.NewNop())
	h := NewWebSocketHandler(hub, zap.NewNop())

	r := gin.New()
	r.GET("/ws", h.Connect)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
