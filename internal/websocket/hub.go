package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/dungeon-bot/internal/bot"
	"go.uber.org/zap"
)

// Dispatcher 聊天指令处理器
type Dispatcher interface {
	Handle(ctx context.Context, sender bot.Sender, text string) bot.Reply
}

// Options 连接参数
type Options struct {
	MaxMessageSize int64
	PingInterval   time.Duration
	PongTimeout    time.Duration
	WriteTimeout   time.Duration
	SendBuffer     int
}

// DefaultOptions 默认连接参数
func DefaultOptions() Options {
	return Options{
		MaxMessageSize: 4096,
		PingInterval:   54 * time.Second,
		PongTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		SendBuffer:     64,
	}
}

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 玩家ID到客户端的映射
	playerClients map[string][]*Client
	playerMu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	dispatcher Dispatcher
	opts       Options
	logger     *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// 消息类型
const (
	MessageTypeConnected = "connected"
	MessageTypeCommand   = "command"
	MessageTypeReply     = "reply"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"
)

// NewHub 创建Hub
func NewHub(dispatcher Dispatcher, opts Options, logger *zap.Logger) *Hub {
	defaults := DefaultOptions()
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaults.PingInterval
	}
	if opts.PongTimeout <= 0 {
		opts.PongTimeout = defaults.PongTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaults.WriteTimeout
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}
	return &Hub{
		clients:       make(map[string]*Client),
		playerClients: make(map[string][]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		dispatcher:    dispatcher,
		opts:          opts,
		logger:        logger,
	}
}

// Run 运行Hub，ctx结束时关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			return
		}
	}
}

// shutdown 关闭所有客户端
func (h *Hub) shutdown() {
	close(h.done)

	h.clientsMu.Lock()
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.clientsMu.Unlock()

	h.playerMu.Lock()
	h.playerClients = make(map[string][]*Client)
	h.playerMu.Unlock()
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.playerMu.Lock()
	h.playerClients[client.PlayerID] = append(h.playerClients[client.PlayerID], client)
	h.playerMu.Unlock()

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("player_id", client.PlayerID))

	data, _ := json.Marshal(map[string]string{"client_id": client.ID, "player_id": client.PlayerID})
	_ = h.SendToClient(client.ID, &Message{Type: MessageTypeConnected, Data: data})
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.send)
	}
	h.clientsMu.Unlock()

	h.playerMu.Lock()
	clients := h.playerClients[client.PlayerID]
	for i, c := range clients {
		if c.ID == client.ID {
			h.playerClients[client.PlayerID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.playerClients[client.PlayerID]) == 0 {
		delete(h.playerClients, client.PlayerID)
	}
	h.playerMu.Unlock()

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("player_id", client.PlayerID))
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToPlayer 发送消息给指定玩家的所有连接
func (h *Hub) SendToPlayer(playerID string, message *Message) error {
	h.playerMu.RLock()
	clients := append([]*Client(nil), h.playerClients[playerID]...)
	h.playerMu.RUnlock()

	if len(clients) == 0 {
		return ErrPlayerNotConnected
	}

	for _, client := range clients {
		if err := h.SendToClient(client.ID, message); err != nil {
			h.logger.Warn("玩家客户端发送失败",
				zap.String("client_id", client.ID),
				zap.String("player_id", playerID),
				zap.Error(err))
		}
	}
	return nil
}

// OnlineCount 在线连接数
func (h *Hub) OnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// OnlinePlayers 在线玩家数
func (h *Hub) OnlinePlayers() int {
	h.playerMu.RLock()
	defer h.playerMu.RUnlock()
	return len(h.playerClients)
}

// Register 注册客户端，Hub已停止时返回false
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
