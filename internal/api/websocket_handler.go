package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/dungeon-bot/internal/config"
	"github.com/wfunc/dungeon-bot/internal/middleware"
	ws "github.com/wfunc/dungeon-bot/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	readSize, writeSize := cfg.ReadBufferSize, cfg.WriteBufferSize
	if readSize <= 0 {
		readSize = 1024
	}
	if writeSize <= 0 {
		writeSize = 1024
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    readSize,
			WriteBufferSize:   writeSize,
			EnableCompression: cfg.EnableCompression,
			// 聊天网关从其他源连接
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Connect 建立聊天连接，连接绑定到已认证的玩家
func (h *WebSocketHandler) Connect(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.String("player_id", playerID),
			zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, playerID, middleware.GetMention(c))
	client.Serve()
}
