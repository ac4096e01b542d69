// Package testutil 测试辅助:内存SQLite数据库和种子数据
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
)

var dbSeq atomic.Int64

// NewDB 创建一个独立的内存数据库并完成建表
// 教学要点:
// 1. cache=shared让同一个DSN的连接看到同一个库,每次调用用不同名字互不干扰
// 2. MaxOpenConns=1,SQLite只允许一个写者,并发事务在连接池上排队
// 3. 测试结束自动关闭,内存库随之释放
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:electromart_test_%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// ProductSeed 商品种子数据
type ProductSeed struct {
	SKU      string
	Name     string
	Price    int64
	Stock    int
	MinStock int
	MaxStock int
	Inactive bool
}

// SeedProduct 插入商品,返回ID
func SeedProduct(t testing.TB, db *gorm.DB, s ProductSeed) uint {
	t.Helper()

	if s.SKU == "" {
		s.SKU = fmt.Sprintf("SKU-%d", dbSeq.Add(1))
	}
	if s.Name == "" {
		s.Name = "Test Product " + s.SKU
	}
	now := time.Now()
	model := &mysql.ProductModel{
		SKU:           s.SKU,
		Name:          s.Name,
		Brand:         "Acme",
		Price:         s.Price,
		CostPrice:     s.Price / 2,
		StockQuantity: s.Stock,
		MinStockLevel: s.MinStock,
		MaxStockLevel: s.MaxStock,
		IsActive:      !s.Inactive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(model).Error)
	return model.ID
}

// StockOf 读取商品当前库存
func StockOf(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()

	var model mysql.ProductModel
	require.NoError(t, db.Select("stock_quantity").First(&model, productID).Error)
	return model.StockQuantity
}

// SeedCartLine 直接插入购物车条目
func SeedCartLine(t testing.TB, db *gorm.DB, customerID, productID uint, quantity int) uint {
	t.Helper()

	now := time.Now()
	model := &mysql.CartLineModel{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, db.Create(model).Error)
	return model.ID
}

// AccountSeed 账户种子数据
type AccountSeed struct {
	CustomerID  uint
	Type        string // 默认CHECKING
	Balance     int64
	CreditLimit int64
	Status      string // 默认ACTIVE
}

// SeedAccount 插入账户,返回ID
func SeedAccount(t testing.TB, db *gorm.DB, s AccountSeed) uint {
	t.Helper()

	if s.Type == "" {
		s.Type = "CHECKING"
	}
	if s.Status == "" {
		s.Status = "ACTIVE"
	}
	now := time.Now()
	model := &mysql.BankingAccountModel{
		CustomerID:    s.CustomerID,
		AccountNumber: fmt.Sprintf("ACC%010d", dbSeq.Add(1)),
		AccountType:   s.Type,
		Balance:       s.Balance,
		CreditLimit:   s.CreditLimit,
		Status:        s.Status,
		OpenedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(model).Error)
	return model.ID
}

// BalanceOf 读取账户余额
func BalanceOf(t testing.TB, db *gorm.DB, accountID uint) int64 {
	t.Helper()

	var model mysql.BankingAccountModel
	require.NoError(t, db.Select("balance").First(&model, accountID).Error)
	return model.Balance
}

// Count 统计表行数
func Count(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
