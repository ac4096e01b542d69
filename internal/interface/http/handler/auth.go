package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// TokenRevoker 把Token加入黑名单
type TokenRevoker interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler 认证HTTP处理器
// 令牌由统一认证中心签发，这里只负责注销
type AuthHandler struct {
	revoker TokenRevoker
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{revoker: revoker}
}

// Logout 注销当前Token
// @Summary      注销
// @Description  当前Token加入黑名单直到过期
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ttl := middleware.GetToken(c)
	if err := h.revoker.Add(c.Request.Context(), token, ttl); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
