package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/response"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// slowRequestThreshold 超过该耗时记录慢请求告警
const slowRequestThreshold = 3 * time.Second

// RequestLogger 请求日志中间件
//
// 教学要点：
// 1. 生成唯一的请求ID(上游已带X-Request-ID时沿用)，写入响应头和request context
// 2. 下游通过logger.WithContext(ctx, l)自动带上request_id
// 3. 结构化日志输出（方法、路径、状态码、耗时）
//
// DON'T：记录密码、Token或完整的请求体
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Set(response.LoggerKey, log)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		l := logger.WithContext(c.Request.Context(), log)
		switch {
		case latency > slowRequestThreshold:
			l.Warn("慢请求", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}

// Recovery panic恢复，返回统一的内部错误响应
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithContext(c.Request.Context(), log).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		response.ErrorWithCode(c, 50000, "系统内部错误")
		c.Abort()
	})
}
