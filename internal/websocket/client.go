package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/dungeon-bot/internal/bot"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrClientNotFound     = errors.New("客户端未找到")
	ErrPlayerNotConnected = errors.New("玩家未连接")
	ErrSendBufferFull     = errors.New("发送缓冲区已满")
)

// Client WebSocket客户端，一个连接绑定一名玩家
type Client struct {
	ID       string
	PlayerID string
	Mention  string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, playerID, mention string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Mention:  mention,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.opts.SendBuffer),
	}
}

// Serve 注册并启动读写协程
func (c *Client) Serve() {
	if !c.hub.Register(c) {
		c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// readPump 读取消息
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	opts := c.hub.opts
	if opts.MaxMessageSize > 0 {
		c.conn.SetReadLimit(opts.MaxMessageSize)
	}
	c.conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket读取错误",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			return
		}

		c.handleMessage(message)
	}
}

// writePump 写入消息
func (c *Client) writePump() {
	opts := c.hub.opts
	ticker := time.NewTicker(opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if !ok {
				// Hub关闭了通道
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Warn("解析WebSocket消息失败",
			zap.String("client_id", c.ID),
			zap.Error(err))
		c.sendError(apperrors.New(apperrors.ErrMessageFormat).WithCause(err))
		return
	}
	logger.LogWebSocketMessage("receive", msg.Type, msg.Text)

	switch msg.Type {
	case MessageTypeCommand:
		reply := c.hub.dispatcher.Handle(context.Background(), bot.Sender{PlayerID: c.PlayerID, Mention: c.Mention}, msg.Text)
		payload, err := json.Marshal(reply)
		if err != nil {
			c.hub.logger.Error("序列化回复失败", zap.Error(err))
			c.sendError(apperrors.New(apperrors.ErrUnknown))
			return
		}
		if err := c.hub.SendToPlayer(c.PlayerID, &Message{Type: MessageTypeReply, Data: payload}); err != nil {
			c.hub.logger.Warn("回复发送失败", zap.String("client_id", c.ID), zap.Error(err))
		}
		logger.LogWebSocketMessage("send", MessageTypeReply, reply.Kind)

	case MessageTypePing:
		c.hub.SendToClient(c.ID, &Message{Type: MessageTypePong})

	case MessageTypePong:

	default:
		c.sendError(apperrors.New(apperrors.ErrMessageFormat).WithDetails("不支持的消息类型: " + msg.Type))
	}
}

// sendError 发送错误消息
func (c *Client) sendError(appErr *apperrors.AppError) {
	data, _ := json.Marshal(appErr)
	c.hub.SendToClient(c.ID, &Message{Type: MessageTypeError, Data: data})
}
