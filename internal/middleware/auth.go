package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/utils"
)

const (
	// HeaderPlayerID 未启用令牌时直接信任的玩家ID请求头
	HeaderPlayerID = "X-Player-ID"
	// HeaderMention 未启用令牌时的玩家称呼请求头
	HeaderMention = "X-Player-Mention"

	contextPlayerID = "playerID"
	contextMention  = "mention"
)

// AuthMiddleware 玩家身份中间件
type AuthMiddleware struct {
	jwt     *utils.JWTManager
	enabled bool
}

// NewAuthMiddleware 创建身份中间件，jwtManager为nil时使用请求头中的玩家ID
func NewAuthMiddleware(jwtManager *utils.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:     jwtManager,
		enabled: jwtManager != nil,
	}
}

// RequirePlayer 解析玩家身份，失败时返回401
func (m *AuthMiddleware) RequirePlayer() gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, mention, appErr := m.identify(c)
		if appErr != nil {
			c.AbortWithStatusJSON(appErr.HTTPStatus(), apperrors.NewErrorResponse(appErr, GetRequestID(c)))
			return
		}

		c.Set(contextPlayerID, playerID)
		c.Set(contextMention, mention)
		c.Next()
	}
}

// identify 从令牌或请求头识别玩家
func (m *AuthMiddleware) identify(c *gin.Context) (string, string, *apperrors.AppError) {
	if !m.enabled {
		playerID := strings.TrimSpace(c.GetHeader(HeaderPlayerID))
		if playerID == "" {
			return "", "", apperrors.Newf(apperrors.ErrAuthentication, "缺少请求头 %s", HeaderPlayerID)
		}
		return playerID, c.GetHeader(HeaderMention), nil
	}

	token := extractToken(c)
	if token == "" {
		return "", "", apperrors.New(apperrors.ErrAuthentication, "缺少认证令牌")
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if err == utils.ErrExpiredToken {
			return "", "", apperrors.New(apperrors.ErrTokenExpired)
		}
		return "", "", apperrors.Wrap(err, apperrors.ErrTokenInvalid)
	}
	return claims.PlayerID, claims.Mention, nil
}

// extractToken 从请求中提取令牌
func extractToken(c *gin.Context) string {
	// 1. Authorization: Bearer <token>
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. Query参数（WebSocket握手无法设置请求头）
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

// GetPlayerID 从上下文获取玩家ID
func GetPlayerID(c *gin.Context) (string, bool) {
	if v, exists := c.Get(contextPlayerID); exists {
		if id, ok := v.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// GetMention 从上下文获取玩家称呼
func GetMention(c *gin.Context) string {
	if v, exists := c.Get(contextMention); exists {
		if mention, ok := v.(string); ok {
			return mention
		}
	}
	return ""
}
