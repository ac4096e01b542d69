package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
	"github.com/xiebiao/electromart/pkg/jwt"
	"github.com/xiebiao/electromart/pkg/response"
)

// gin.Context中的键
const (
	actorKey    = "actor"
	tokenKey    = "token"
	tokenTTLKey = "token_ttl"
)

// TokenBlacklist 已注销Token的查询接口(由Redis实现)
type TokenBlacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Bearer Token
// 2. 检查Token黑名单（已注销的Token）
// 3. 验证签名和有效期，还原出操作者(Actor)
// 4. 将Actor注入Context，角色校验交给用例层
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件，blacklist为nil时不检查黑名单
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/checkout", checkoutHandler.Checkout)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. 检查黑名单（已登出的Token）
		if m.blacklist != nil {
			revoked, err := m.blacklist.Contains(c.Request.Context(), tokenString)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if revoked {
				response.Error(c, apperrors.ErrTokenExpired)
				c.Abort()
				return
			}
		}

		// 3. 验证Token并还原Actor
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired或ErrInvalidToken
			c.Abort()
			return
		}
		actor, err := claims.Actor()
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		// 4. 注入Context
		c.Set(actorKey, actor)
		c.Set(tokenKey, tokenString)
		c.Set(tokenTTLKey, claims.RemainingTTL())

		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetActor 从Context获取当前操作者
// 未经过RequireAuth时返回零值(Role为空)，用例层的角色校验会拒绝它
func GetActor(c *gin.Context) authz.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}

// GetToken 当前请求的原始Token及剩余有效期(用于注销)
func GetToken(c *gin.Context) (string, time.Duration) {
	token := c.GetString(tokenKey)
	ttl, _ := c.Get(tokenTTLKey)
	d, _ := ttl.(time.Duration)
	return token, d
}
