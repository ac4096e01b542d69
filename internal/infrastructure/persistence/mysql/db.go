package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/electromart/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，TranslateError把唯一索引冲突转换为gorm.ErrDuplicatedKey
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. auto_migrate=true时AutoMigrate，否则执行版本化迁移脚本
//
// 返回的*gorm.DB在main中创建一次，注入到各仓储，进程退出时关闭
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	} else {
		if err := RunMigrations(sqlDB, log); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// CloseDB 关闭连接池
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自动迁移表结构（开发和测试环境）
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ProductModel{},
		&CartLineModel{},
		&OrderModel{},
		&OrderItemModel{},
		&InventoryLogModel{},
		&BankingAccountModel{},
		&BankingTransactionModel{},
	)
}

// ProductModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位
// 2. CHECK约束是库存非负的最后一道防线(条件更新是第一道)
// 3. bool/int字段不设gorm default,否则写入零值时会被默认值覆盖
type ProductModel struct {
	ID            uint      `gorm:"primaryKey"`
	SKU           string    `gorm:"uniqueIndex;size:64;not null;comment:商品编码"`
	Name          string    `gorm:"size:200;not null;comment:商品名称"`
	Brand         string    `gorm:"size:100;comment:品牌"`
	Price         int64     `gorm:"not null;comment:售价(分)"`
	CostPrice     int64     `gorm:"not null;comment:成本价(分)"`
	StockQuantity int       `gorm:"not null;check:chk_products_stock_nonneg,stock_quantity >= 0;comment:库存数量"`
	MinStockLevel int       `gorm:"not null;comment:最低库存"`
	MaxStockLevel int       `gorm:"not null;comment:最高库存(0不限制)"`
	IsActive      bool      `gorm:"index;not null;comment:是否在售"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// CartLineModel GORM购物车模型
// (customer_id, product_id)唯一,重复加购时合并数量
type CartLineModel struct {
	ID         uint      `gorm:"primaryKey"`
	CustomerID uint      `gorm:"uniqueIndex:uk_cart_customer_product;not null;comment:客户ID"`
	ProductID  uint      `gorm:"uniqueIndex:uk_cart_customer_product;not null;comment:商品ID"`
	Quantity   int       `gorm:"not null;comment:数量"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNumber有唯一索引(业务主键)
// 3. Status使用int存储(1待处理2处理中3已发货4已送达5已取消6已退货)
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	OrderNumber     string           `gorm:"uniqueIndex;size:40;not null;comment:订单号"`
	CustomerID      uint             `gorm:"index;not null;comment:客户ID"`
	StoreID         uint             `gorm:"not null;comment:门店ID"`
	EmployeeID      *uint            `gorm:"comment:代客下单员工ID"`
	Status          int              `gorm:"index;type:tinyint;not null;comment:订单状态"`
	PaymentMethod   string           `gorm:"size:20;not null;comment:支付方式"`
	Subtotal        int64            `gorm:"not null;comment:小计(分)"`
	TaxAmount       int64            `gorm:"not null;comment:税额(分)"`
	ShippingCost    int64            `gorm:"not null;comment:运费(分)"`
	DiscountAmount  int64            `gorm:"not null;comment:折扣(分)"`
	TotalAmount     int64            `gorm:"not null;comment:总金额(分)"`
	ShippingAddress string           `gorm:"size:500;not null;comment:收货地址"`
	BillingAddress  string           `gorm:"size:500;comment:账单地址"`
	Notes           string           `gorm:"size:1000;comment:备注"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt       time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 记录下单时的价格快照(UnitPrice)
type OrderItemModel struct {
	ID         uint  `gorm:"primaryKey"`
	OrderID    uint  `gorm:"index;not null;comment:订单ID"`
	ProductID  uint  `gorm:"index;not null;comment:商品ID"`
	Quantity   int   `gorm:"not null;comment:数量"`
	UnitPrice  int64 `gorm:"not null;comment:下单时单价(分)"`
	TotalPrice int64 `gorm:"not null;comment:明细金额(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// InventoryLogModel 库存台账(只追加)
type InventoryLogModel struct {
	ID               uint      `gorm:"primaryKey"`
	ProductID        uint      `gorm:"index:idx_inventory_log_product;not null;comment:商品ID"`
	TransactionType  string    `gorm:"size:20;not null;comment:IN/OUT/ADJUSTMENT"`
	QuantityChange   int       `gorm:"not null;comment:变更数量(带符号)"`
	PreviousQuantity int       `gorm:"not null;comment:变更前库存"`
	NewQuantity      int       `gorm:"not null;comment:变更后库存"`
	Reason           string    `gorm:"size:255;not null;comment:原因"`
	ReferenceID      *uint     `gorm:"index;comment:关联订单ID"`
	ActorID          uint      `gorm:"not null;comment:操作人ID"`
	ActorRole        string    `gorm:"size:20;not null;comment:操作人角色"`
	CreatedAt        time.Time `gorm:"index:idx_inventory_log_product;comment:创建时间"`
}

// TableName 指定表名
func (InventoryLogModel) TableName() string {
	return "inventory_log"
}

// BankingAccountModel 客户内部账户
type BankingAccountModel struct {
	ID            uint      `gorm:"primaryKey"`
	CustomerID    uint      `gorm:"index;not null;comment:客户ID"`
	AccountNumber string    `gorm:"uniqueIndex;size:32;not null;comment:账号"`
	AccountType   string    `gorm:"size:20;not null;comment:CHECKING/SAVINGS/CREDIT"`
	Balance       int64     `gorm:"not null;comment:余额(分)"`
	CreditLimit   int64     `gorm:"not null;comment:信用额度(分)"`
	Status        string    `gorm:"size:20;not null;comment:ACTIVE/FROZEN/CLOSED"`
	OpenedAt      time.Time `gorm:"comment:开户时间"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BankingAccountModel) TableName() string {
	return "banking_accounts"
}

// BankingTransactionModel 账户流水(只追加)
type BankingTransactionModel struct {
	ID              uint      `gorm:"primaryKey"`
	TransactionNo   string    `gorm:"uniqueIndex;size:32;not null;comment:流水号"`
	AccountID       uint      `gorm:"index;not null;comment:账户ID"`
	TransactionType string    `gorm:"size:20;not null;comment:流水类型"`
	Amount          int64     `gorm:"not null;comment:金额(分)"`
	BalanceAfter    int64     `gorm:"not null;comment:交易后余额(分)"`
	Description     string    `gorm:"size:255;comment:描述"`
	RelatedOrderID  *uint     `gorm:"index;comment:关联订单ID"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (BankingTransactionModel) TableName() string {
	return "banking_transactions"
}
