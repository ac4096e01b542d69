//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. main.go中的buildEngine是同一依赖图的手写版本
//
// 生成：wire gen ./cmd/api
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewOrderRepository）
// - Injector: 声明最终要构造的目标类型（*gin.Engine）
// - wire.Bind: 把具体类型绑定到接口（如*redis.ProductCache → product.Cache）

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbanking "github.com/xiebiao/electromart/internal/application/banking"
	appcart "github.com/xiebiao/electromart/internal/application/cart"
	"github.com/xiebiao/electromart/internal/application/checkout"
	appinventory "github.com/xiebiao/electromart/internal/application/inventory"
	apporder "github.com/xiebiao/electromart/internal/application/order"
	appproduct "github.com/xiebiao/electromart/internal/application/product"
	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/domain/event"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/config"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/electromart/internal/interface/http/handler"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/internal/interface/http/router"
	"github.com/xiebiao/electromart/pkg/jwt"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/money"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 配置、日志、数据库、Redis、消息
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideContext,
	mysql.NewDB,
	redis.NewClient,
	provideEventPublisher,
	provideTaxRate,
)

// repositorySet 仓储与缓存
var repositorySet = wire.NewSet(
	provideTxManager,
	mysql.NewProductRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewInventoryRepository,
	mysql.NewBankingRepository,
	provideProductCache,
	wire.Bind(new(product.Cache), new(*redis.ProductCache)),
	redis.NewTokenBlacklist,
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.TokenBlacklist)),
	wire.Bind(new(handler.TokenRevoker), new(*redis.TokenBlacklist)),
)

// domainSet 库存台账、扣款桥、商品读取
var domainSet = wire.NewSet(
	inventory.NewLedger,
	banking.NewBridge,
	product.NewCachedReader,
)

// applicationSet 所有Use Case
var applicationSet = wire.NewSet(
	appcart.NewGetCartUseCase,
	appcart.NewAddLineUseCase,
	appcart.NewUpdateLineUseCase,
	appcart.NewRemoveLineUseCase,
	appcart.NewClearCartUseCase,
	wire.Struct(new(checkout.Deps), "*"),
	checkout.NewUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	appinventory.NewAdjustUseCase,
	appinventory.NewListLogsUseCase,
	appinventory.NewListLowStockUseCase,
	appproduct.NewUpdateUseCase,
	appbanking.NewListAccountsUseCase,
	appbanking.NewListTransactionsUseCase,
)

// interfaceSet Handler、中间件、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewCartHandler,
	handler.NewCheckoutHandler,
	handler.NewOrderHandler,
	handler.NewInventoryHandler,
	handler.NewProductHandler,
	handler.NewBankingHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouterOptions,
	router.New,
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 构造函数参数需要从Config中提取时，手动编写Provider

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

func provideContext() context.Context {
	return context.Background()
}

// provideEventPublisher 返回的cleanup负责关闭RabbitMQ连接
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	return newEventPublisher(cfg, log)
}

func provideTaxRate(cfg *config.Config) (decimal.Decimal, error) {
	return money.ParseRate(cfg.Order.TaxRate)
}

// provideTxManager NewTxManager是可变参数，Wire无法直接注入
func provideTxManager(cfg *config.Config, db *gorm.DB, log *zap.Logger) *mysql.TxManager {
	return mysql.NewTxManager(db,
		mysql.WithTimeout(cfg.Database.TxTimeout),
		mysql.WithMaxRetries(cfg.Database.TxMaxRetries),
		mysql.WithLogger(log),
	)
}

func provideProductCache(cfg *config.Config, client *goredis.Client) *redis.ProductCache {
	return redis.NewProductCache(client, cfg.Cache.ProductTTL)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
}

func provideRouterOptions(cfg *config.Config) router.Options {
	return router.Options{
		Mode:          cfg.Server.Mode,
		EnableMetrics: cfg.Metrics.Enabled,
		EnableSwagger: cfg.Server.Mode != gin.ReleaseMode,
	}
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// 依赖链示例：
// *gin.Engine → router.Handlers → *handler.CheckoutHandler
// → *checkout.UseCase → checkout.Deps → *inventory.Ledger
// → inventory.Repository → *gorm.DB → *config.Config
//
// cleanup按相反顺序释放Provider返回的资源

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
