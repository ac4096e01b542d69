// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/interface/http/handler"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Auth      *handler.AuthHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Order     *handler.OrderHandler
	Inventory *handler.InventoryHandler
	Product   *handler.ProductHandler
	Banking   *handler.BankingHandler
}

// Options 路由选项
type Options struct {
	Mode          string // debug | release | test
	EnableMetrics bool   // 注册/metrics
	EnableSwagger bool   // 注册/swagger/*any，生产环境建议关闭
}

// New 创建Gin引擎并注册路由
//
// 中间件顺序：
//  1. Recovery   panic兜底
//  2. Tracing    根Span，后续日志可带trace_id
//  3. Logger     请求ID + 访问日志
//  4. Metrics    请求数/耗时
//  5. Auth       仅/api/v1下的业务路由
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, log *zap.Logger) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.Tracing(),
		middleware.RequestLogger(log),
	)
	if opts.EnableMetrics {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	if opts.EnableSwagger {
		// 访问 http://localhost:8080/swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.Use(auth.RequireAuth())
	{
		v1.POST("/auth/logout", h.Auth.Logout)

		cart := v1.Group("/cart")
		{
			cart.GET("", h.Cart.GetCart)
			cart.DELETE("", h.Cart.ClearCart)
			cart.POST("/lines", h.Cart.AddLine)
			cart.PUT("/lines/:id", h.Cart.UpdateLine)
			cart.DELETE("/lines/:id", h.Cart.RemoveLine)
		}

		v1.POST("/checkout", h.Checkout.Checkout)

		orders := v1.Group("/orders")
		{
			orders.GET("", h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.PUT("/:id/status", h.Order.UpdateStatus)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/adjust", h.Inventory.Adjust)
			inventory.GET("/logs", h.Inventory.Logs)
			inventory.GET("/low-stock", h.Inventory.LowStock)
		}

		v1.PATCH("/products/:id", h.Product.Update)

		banking := v1.Group("/banking")
		{
			banking.GET("/accounts", h.Banking.Accounts)
			banking.GET("/accounts/:id/transactions", h.Banking.Transactions)
		}
	}

	return r
}
