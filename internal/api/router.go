package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/dungeon-bot/internal/bot"
	"github.com/wfunc/dungeon-bot/internal/config"
	"github.com/wfunc/dungeon-bot/internal/database"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/game"
	"github.com/wfunc/dungeon-bot/internal/middleware"
	"github.com/wfunc/dungeon-bot/internal/utils"
	ws "github.com/wfunc/dungeon-bot/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 路由依赖
type Deps struct {
	DB        *gorm.DB
	Service   *game.GameService
	Bot       *bot.Bot
	Hub       *ws.Hub // 为nil时不注册WebSocket路由
	JWT       *utils.JWTManager
	WebSocket config.WebSocketConfig
	Mode      string
}

// Router API路由器
type Router struct {
	engine    *gin.Engine
	db        *gorm.DB
	game      *GameHandler
	chat      *ChatHandler
	websocket *WebSocketHandler
	auth      *middleware.AuthMiddleware
	wsPath    string
	log       *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(deps Deps, log *zap.Logger) *Router {
	if deps.Mode == config.ModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())

	router := &Router{
		engine: engine,
		db:     deps.DB,
		game:   NewGameHandler(deps.Service, log),
		chat:   NewChatHandler(deps.Bot, log),
		auth:   middleware.NewAuthMiddleware(deps.JWT),
		wsPath: deps.WebSocket.Path,
		log:    log,
	}
	if deps.Hub != nil {
		router.websocket = NewWebSocketHandler(deps.Hub, deps.WebSocket, log)
	}
	if router.wsPath == "" {
		router.wsPath = "/ws"
	}

	router.setupRoutes()
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthCheck)
	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/locations", r.game.Locations)

		gameGroup := v1.Group("/game")
		gameGroup.Use(r.auth.RequirePlayer())
		{
			gameGroup.POST("/start", r.game.Start)
			gameGroup.GET("/status", r.game.Status)
			gameGroup.GET("/map", r.game.Map)
			gameGroup.POST("/go", r.game.Move)
			gameGroup.POST("/attack", r.game.Attack)
		}

		chat := v1.Group("/chat")
		chat.Use(r.auth.RequirePlayer())
		{
			chat.POST("/command", r.chat.Command)
		}
	}

	if r.websocket != nil {
		r.engine.GET(r.wsPath, r.auth.RequirePlayer(), r.websocket.Connect)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperrors.NewErrorResponse(
			apperrors.New(apperrors.ErrNotFound, "接口不存在"), middleware.GetRequestID(c)))
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, r.db); err != nil {
		r.log.Warn("健康检查失败", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库不可用",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Handler 返回HTTP处理器
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
