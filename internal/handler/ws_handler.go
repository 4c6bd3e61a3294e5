package handler

import (
	"net/http"

	"kiu_social_server/internal/service"
	"kiu_social_server/internal/service/chat"
	"kiu_social_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the web app.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	chatServer  *chat.ChatServer
	authService service.AuthService
}

func NewWsHandler(chatServer *chat.ChatServer, authService service.AuthService) *WsHandler {
	return &WsHandler{chatServer: chatServer, authService: authService}
}

// Connect authenticates the token supplied as a query parameter and upgrades
// the request. A missing, invalid or unknown identity is refused before the
// upgrade, so no payload ever reaches an unauthenticated socket.
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != "access_token" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if _, err := h.authService.Verify(claims.UserID); err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	chat.NewUserConn(h.chatServer, ws, claims.UserID)
}
