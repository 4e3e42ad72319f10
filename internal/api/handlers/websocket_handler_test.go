package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lifelink-api-server/internal/auth"
	"lifelink-api-server/internal/logger"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestServeWs_PushesNotifications(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleDonor, Status: models.StatusActive}
	users := new(mockUserStore)
	users.On("FindByID", mock.Anything, user.ID.Hex()).Return(&user, nil)

	tokens := auth.NewTokenManager("ws-secret", time.Hour)
	hub := socket.NewHub(logger.Discard())
	h := &WebSocketHandler{Hub: hub, Tokens: tokens, Users: users, Log: logger.Discard()}

	r := gin.New()
	r.GET("/ws", h.ServeWs)
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := tokens.Generate(user)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected(user.ID.Hex()) == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(models.Notification{UserID: user.ID, Title: "Request accepted", Type: models.NotificationRequestAccepted})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"event":"notification"`)
	assert.Contains(t, string(msg), "Request accepted")

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connected(user.ID.Hex()) == 0 }, time.Second, 10*time.Millisecond)
}

func TestServeWs_RejectsBadTokens(t *testing.T) {
	h := &WebSocketHandler{
		Hub:    socket.NewHub(logger.Discard()),
		Tokens: auth.NewTokenManager("ws-secret", time.Hour),
		Users:  new(mockUserStore),
		Log:    logger.Discard(),
	}
	r := gin.New()
	r.GET("/ws", h.ServeWs)

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/ws", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/ws?token=garbage", "").Code)
}
