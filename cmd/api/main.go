package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
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
	"github.com/xiebiao/electromart/internal/infrastructure/messaging"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/electromart/internal/interface/http/handler"
	"github.com/xiebiao/electromart/internal/interface/http/middleware"
	"github.com/xiebiao/electromart/internal/interface/http/router"
	"github.com/xiebiao/electromart/pkg/jwt"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/metrics"
	"github.com/xiebiao/electromart/pkg/money"
	"github.com/xiebiao/electromart/pkg/mq"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// @title           ElectroMart 订单履约 API
// @version         1.0
// @description     购物车、下单、订单状态流转、库存台账
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// main 主程序入口
// 说明：手动依赖注入（wire.go是同一依赖图的Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zl, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	// 3. 可观测性
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("初始化追踪失败: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	// 4. 数据库（NewDB内按配置执行迁移）
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	defer func() { _ = mysql.CloseDB(db) }()

	// 5. Redis
	redisClient, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("初始化Redis失败: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// 6. 事件发布
	publisher, closePublisher, err := newEventPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	taxRate, err := money.ParseRate(cfg.Order.TaxRate)
	if err != nil {
		return fmt.Errorf("税率配置错误: %w", err)
	}

	// 7. 依赖注入（手动组装）
	engine := buildEngine(cfg, db, redisClient, publisher, taxRate, log)

	// 8. 启动服务并等待退出信号
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP服务启动失败: %w", err)
	case sig := <-quit:
		log.Info("收到退出信号，开始优雅关闭", zap.String("signal", sig.String()))
	}

	// 进行中的请求最多等待ShutdownTimeout，事务在此期间自然提交或回滚
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器强制关闭: %w", err)
	}
	log.Info("服务已停止")
	return nil
}

// newEventPublisher RabbitMQ未启用时事件只丢弃，不影响下单
func newEventPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		log.Info("RabbitMQ未启用，领域事件不外发")
		return event.NopPublisher{}, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.ExchangeType, log)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	closeFn := func() {
		if err := pub.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	return messaging.NewEventPublisher(pub, messaging.DefaultOptions(), log), closeFn, nil
}

// buildEngine 组装依赖并注册路由
// 依赖注入链：Repository ← Ledger/Bridge ← UseCase ← Handler ← Router
func buildEngine(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *goredis.Client,
	publisher event.Publisher,
	taxRate decimal.Decimal,
	log *zap.Logger,
) *gin.Engine {
	// 基础设施层
	txManager := mysql.NewTxManager(db,
		mysql.WithTimeout(cfg.Database.TxTimeout),
		mysql.WithMaxRetries(cfg.Database.TxMaxRetries),
		mysql.WithLogger(log),
	)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	bankingRepo := mysql.NewBankingRepository(db)
	productCache := redis.NewProductCache(redisClient, cfg.Cache.ProductTTL)
	blacklist := redis.NewTokenBlacklist(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)

	// 领域层
	ledger := inventory.NewLedger(inventoryRepo)
	bridge := banking.NewBridge(bankingRepo)
	products := product.NewCachedReader(productRepo, productCache, log)

	// 应用层 + 接口层
	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(blacklist),
		Cart: handler.NewCartHandler(
			appcart.NewGetCartUseCase(cartRepo, productRepo, taxRate, log),
			appcart.NewAddLineUseCase(cartRepo, products, log),
			appcart.NewUpdateLineUseCase(cartRepo, products),
			appcart.NewRemoveLineUseCase(cartRepo),
			appcart.NewClearCartUseCase(cartRepo),
		),
		Checkout: handler.NewCheckoutHandler(checkout.NewUseCase(checkout.Deps{
			TxManager:   txManager,
			CartRepo:    cartRepo,
			ProductRepo: productRepo,
			OrderRepo:   orderRepo,
			Ledger:      ledger,
			Bridge:      bridge,
			Products:    products,
			Publisher:   publisher,
			TaxRate:     taxRate,
			Logger:      log,
		})),
		Order: handler.NewOrderHandler(
			apporder.NewListOrdersUseCase(orderRepo),
			apporder.NewGetOrderUseCase(orderRepo, bankingRepo),
			apporder.NewUpdateStatusUseCase(txManager, orderRepo, ledger, products, publisher, log),
		),
		Inventory: handler.NewInventoryHandler(
			appinventory.NewAdjustUseCase(txManager, ledger, products, publisher, log),
			appinventory.NewListLogsUseCase(inventoryRepo),
			appinventory.NewListLowStockUseCase(productRepo),
		),
		Product: handler.NewProductHandler(appproduct.NewUpdateUseCase(productRepo, products, log)),
		Banking: handler.NewBankingHandler(
			appbanking.NewListAccountsUseCase(bankingRepo),
			appbanking.NewListTransactionsUseCase(bankingRepo),
		),
	}

	return router.New(
		router.Options{
			Mode:          cfg.Server.Mode,
			EnableMetrics: cfg.Metrics.Enabled,
			EnableSwagger: cfg.Server.Mode != gin.ReleaseMode,
		},
		handlers,
		middleware.NewAuthMiddleware(jwtManager, blacklist),
		log,
	)
}
