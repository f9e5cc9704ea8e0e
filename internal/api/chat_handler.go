package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/dungeon-bot/internal/bot"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/middleware"
	"go.uber.org/zap"
)

// ChatHandler 聊天网关入口，将原始消息交给机器人
type ChatHandler struct {
	bot    *bot.Bot
	logger *zap.Logger
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(b *bot.Bot, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{bot: b, logger: logger}
}

// CommandRequest 聊天消息
type CommandRequest struct {
	Text string `json:"text" binding:"required"`
}

// Command 处理一条聊天消息
// @Summary 处理聊天指令
// @Description 例如 {"text": "!go 森林"}，返回渲染后的回复文本和结构化结果
// @Tags Chat
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body CommandRequest true "聊天消息"
// @Success 200 {object} bot.Reply
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 503 {object} bot.Reply
// @Router /api/v1/chat/command [post]
func (h *ChatHandler) Command(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.Wrap(err, apperrors.ErrInvalidParam)
		c.JSON(appErr.HTTPStatus(), apperrors.NewErrorResponse(appErr, middleware.GetRequestID(c)))
		return
	}

	playerID, _ := middleware.GetPlayerID(c)
	sender := bot.Sender{PlayerID: playerID, Mention: middleware.GetMention(c)}
	reply := h.bot.Handle(c.Request.Context(), sender, req.Text)

	status := http.StatusOK
	if reply.Kind == bot.KindError {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, reply)
}
