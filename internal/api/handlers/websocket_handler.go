package handlers

import (
	"net/http"
	"time"

	"site-ops-api-server/internal/auth"
	"site-ops-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// pongWait is how long we keep a connection alive without hearing from the
// client. Pings from the client extend the deadline.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
	Log *zap.Logger
}

// ServeWs upgrades an authenticated request to a websocket connection and
// registers it with the hub. Browsers cannot set headers on websocket
// requests, so the token comes in as a query parameter.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	h.Hub.Register(claims.EmployeeID, claims.Role, conn)

	defer func() {
		h.Hub.Unregister(claims.EmployeeID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients never send application messages; the read loop only exists to
	// detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Debug("unexpected close", zap.String("employeeID", claims.EmployeeID), zap.Error(err))
			}
			break
		}
	}
}
