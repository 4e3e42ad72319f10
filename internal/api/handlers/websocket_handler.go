// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"lifelink-api-server/internal/api/middleware"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Maximum time to wait for any frame (including a ping) from the client.
const pongWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Tokens middleware.TokenParser
	Users  middleware.UserLookup
	Log    *logrus.Entry
}

// ServeWs upgrades the connection and registers it for the token's user.
// Browsers cannot set headers on a WebSocket handshake, so the token is a query parameter.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := h.Tokens.Parse(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	userID := claims.Subject

	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return
	}
	if user.Status == models.StatusBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account is blocked"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	h.Hub.Register(userID, conn)
	defer func() {
		h.Hub.Unregister(userID, conn)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	// WriteControl may run concurrently with the hub's writes.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})

	// Clients only send pings, so the loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.WithError(err).WithField("user", userID).Warn("Unexpected websocket close")
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
