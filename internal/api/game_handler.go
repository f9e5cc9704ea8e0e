package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/game"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/middleware"
	"go.uber.org/zap"
)

// GameHandler 游戏处理器，直接返回结构化结果
type GameHandler struct {
	service *game.GameService
	logger  *zap.Logger
}

// NewGameHandler 创建游戏处理器
func NewGameHandler(service *game.GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		service: service,
		logger:  logger,
	}
}

// MoveRequest 移动请求
type MoveRequest struct {
	// Location 地点ID或名称
	Location string `json:"location"`
}

// LocationListResponse 地点列表响应
type LocationListResponse struct {
	Locations []game.Location `json:"locations"`
	Total     int             `json:"total"`
}

// Start 开始游戏
// @Summary 开始游戏
// @Tags Game
// @Security Bearer
// @Produce json
// @Success 200 {object} game.StartResult
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/game/start [post]
func (h *GameHandler) Start(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	res, err := h.service.Start(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "start", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Status 查询状态
// @Summary 查询玩家状态
// @Tags Game
// @Security Bearer
// @Produce json
// @Success 200 {object} game.StatusResult
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/game/status [get]
func (h *GameHandler) Status(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	res, err := h.service.Status(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "status", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Map 查看地图
// @Summary 查看地图
// @Tags Game
// @Security Bearer
// @Produce json
// @Success 200 {object} game.MapResult
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/game/map [get]
func (h *GameHandler) Map(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	res, err := h.service.ShowMap(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "map", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Move 前往地点
// @Summary 前往地点
// @Tags Game
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body MoveRequest true "目标地点"
// @Success 200 {object} game.MoveResult
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/game/go [post]
func (h *GameHandler) Move(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.Wrap(err, apperrors.ErrInvalidParam)
		c.JSON(appErr.HTTPStatus(), apperrors.NewErrorResponse(appErr, middleware.GetRequestID(c)))
		return
	}

	res, err := h.service.Move(c.Request.Context(), playerID, game.ParseLocationRef(req.Location))
	if err != nil {
		h.fail(c, "go", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Attack 攻击首领
// @Summary 攻击当前地点的首领
// @Tags Game
// @Security Bearer
// @Produce json
// @Success 200 {object} game.AttackResult
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/game/attack [post]
func (h *GameHandler) Attack(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	res, err := h.service.Attack(c.Request.Context(), playerID)
	if err != nil {
		h.fail(c, "attack", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Locations 地点列表
// @Summary 全部地点
// @Tags Game
// @Produce json
// @Success 200 {object} LocationListResponse
// @Failure 503 {object} apperrors.ErrorResponse
// @Router /api/v1/locations [get]
func (h *GameHandler) Locations(c *gin.Context) {
	locations, err := h.service.Locations(c.Request.Context())
	if err != nil {
		h.fail(c, "locations", err)
		return
	}
	c.JSON(http.StatusOK, LocationListResponse{Locations: locations, Total: len(locations)})
}

// fail 记录并返回错误响应
func (h *GameHandler) fail(c *gin.Context, op string, err error) {
	fields := append([]zap.Field{zap.String("op", op)}, logger.ErrorFields(err)...)
	h.logger.Error("游戏请求失败", fields...)
	writeError(c, err)
}

// writeError 将错误转换为统一响应
func writeError(c *gin.Context, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.Wrap(err, apperrors.ErrUnknown)
	}
	c.JSON(appErr.HTTPStatus(), apperrors.NewErrorResponse(appErr, middleware.GetRequestID(c)))
}
