package mysql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/internal/testutil"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

func TestProductRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewProductRepository(db)
	ctx := context.Background()

	t.Run("创建和查询", func(t *testing.T) {
		p := product.NewProduct("LAPTOP-001", "Laptop", "Acme", 99900, 70000)
		p.StockQuantity = 5
		require.NoError(t, repo.Create(ctx, p))
		assert.NotZero(t, p.ID)

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "LAPTOP-001", found.SKU)
		assert.Equal(t, int64(99900), found.Price)
		assert.Equal(t, 5, found.StockQuantity)
		assert.True(t, found.IsActive)
	})

	t.Run("SKU重复", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, product.NewProduct("DUP-001", "Phone", "Acme", 1000, 500)))

		err := repo.Create(ctx, product.NewProduct("DUP-001", "Phone 2", "Acme", 1000, 500))
		assert.ErrorIs(t, err, product.ErrSKUDuplicate)
	})

	t.Run("商品不存在", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})

	t.Run("批量查询", func(t *testing.T) {
		a := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 1})
		b := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 200, Stock: 2})

		found, err := repo.FindByIDs(ctx, []uint{a, b, 999999})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, int64(200), found[b].Price)

		empty, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("按字段更新", func(t *testing.T) {
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 1})
		require.NoError(t, repo.Update(ctx, id, map[string]interface{}{"price": int64(150), "name": "Renamed"}))

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(150), found.Price)
		assert.Equal(t, "Renamed", found.Name)

		err = repo.Update(ctx, 999999, map[string]interface{}{"price": int64(1)})
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})
}

func TestProductRepository_ListLowStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewProductRepository(db)

	// 缺口2
	small := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 8, MinStock: 10})
	// 缺口10
	large := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 0, MinStock: 10})
	// 库存充足
	testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 50, MinStock: 10})
	// 已下架不算
	testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 0, MinStock: 10, Inactive: true})

	list, err := repo.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, large, list[0].ID, "缺口大的排在前面")
	assert.Equal(t, small, list[1].ID)
}

func TestInventoryRepository_ApplyDelta(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("扣减成功", func(t *testing.T) {
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 5, MinStock: 3})

		level, err := repo.ApplyDelta(ctx, id, -3, false)
		require.NoError(t, err)
		assert.Equal(t, 5, level.Previous)
		assert.Equal(t, 2, level.New)
		assert.Equal(t, 3, level.MinStockLevel)
		assert.Equal(t, 2, testutil.StockOf(t, db, id))
	})

	t.Run("库存不足不修改", func(t *testing.T) {
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 2})

		_, err := repo.ApplyDelta(ctx, id, -3, false)
		require.ErrorIs(t, err, inventory.ErrInsufficientStock)

		appErr := apperrors.GetAppError(err)
		pid, ok := appErr.Field("product_id")
		require.True(t, ok)
		assert.Equal(t, id, pid)
		assert.Equal(t, 2, testutil.StockOf(t, db, id))
	})

	t.Run("扣到0允许", func(t *testing.T) {
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 2})

		level, err := repo.ApplyDelta(ctx, id, -2, false)
		require.NoError(t, err)
		assert.Equal(t, 0, level.New)
	})

	t.Run("超过上限", func(t *testing.T) {
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 8, MaxStock: 10})

		_, err := repo.ApplyDelta(ctx, id, 5, true)
		assert.ErrorIs(t, err, inventory.ErrExceedsMaxStock)
		assert.Equal(t, 8, testutil.StockOf(t, db, id))

		// 不检查上限时允许(取消订单回补)
		level, err := repo.ApplyDelta(ctx, id, 5, false)
		require.NoError(t, err)
		assert.Equal(t, 13, level.New)
	})

	t.Run("商品不存在", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, 999999, 1, false)
		assert.ErrorIs(t, err, product.ErrProductNotFound)
	})
}

// 可重复读下,条件更新失败后的普通SELECT读到的是事务快照(比如并发下单前的库存1)
// 用查询回调模拟这个过期快照,判定结果不能依赖读出的库存值
func TestInventoryRepository_ApplyDelta_StaleSnapshot(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewInventoryRepository(db)
	ctx := context.Background()

	soldOut := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 0})
	full := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 10, MaxStock: 10})

	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:stale_snapshot", func(tx *gorm.DB) {
		if m, ok := tx.Statement.Dest.(*mysql.ProductModel); ok {
			m.StockQuantity = 1
		}
	}))

	_, err := repo.ApplyDelta(ctx, soldOut, -1, false)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.NotErrorIs(t, err, inventory.ErrExceedsMaxStock)
	pid, ok := apperrors.GetAppError(err).Field("product_id")
	require.True(t, ok)
	assert.Equal(t, soldOut, pid)

	_, err = repo.ApplyDelta(ctx, full, 1, true)
	assert.ErrorIs(t, err, inventory.ErrExceedsMaxStock)

	var stock int
	require.NoError(t, db.Model(&mysql.ProductModel{}).Where("id = ?", soldOut).Pluck("stock_quantity", &stock).Error)
	assert.Equal(t, 0, stock)
}

func TestInventoryRepository_Logs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewInventoryRepository(db)
	ctx := context.Background()

	id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 10})
	orderID := uint(42)

	for i := 1; i <= 3; i++ {
		entry := &inventory.LogEntry{
			ProductID:        id,
			Type:             inventory.TypeOut,
			QuantityChange:   -1,
			PreviousQuantity: 11 - i,
			NewQuantity:      10 - i,
			Reason:           inventory.ReasonSale,
			ActorID:          7,
			ActorRole:        "CUSTOMER",
		}
		if i == 2 {
			entry.ReferenceID = &orderID
		}
		require.NoError(t, repo.AppendLog(ctx, entry))
		assert.NotZero(t, entry.ID)
	}

	logs, total, err := repo.ListLogs(ctx, id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	assert.Equal(t, 7, logs[0].NewQuantity, "新的在前")

	byRef, err := repo.ListLogsByReference(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, byRef, 1)
	assert.Equal(t, inventory.ReasonSale, byRef[0].Reason)
	assert.Equal(t, orderID, *byRef[0].ReferenceID)
}

func TestCartRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewCartRepository(db)
	ctx := context.Background()

	p1 := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 10})
	p2 := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 200, Stock: 10})

	t.Run("重复加购合并数量", func(t *testing.T) {
		line, err := repo.AddQuantity(ctx, 1, p1, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)

		merged, err := repo.AddQuantity(ctx, 1, p1, 3)
		require.NoError(t, err)
		assert.Equal(t, line.ID, merged.ID)
		assert.Equal(t, 5, merged.Quantity)
		assert.Equal(t, int64(1), testutil.Count(t, db, &mysql.CartLineModel{}))
	})

	t.Run("修改删除清空", func(t *testing.T) {
		line, err := repo.AddQuantity(ctx, 2, p2, 1)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateQuantity(ctx, line.ID, 4))
		found, err := repo.FindByID(ctx, line.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, found.Quantity)

		require.NoError(t, repo.Delete(ctx, line.ID))
		_, err = repo.FindByID(ctx, line.ID)
		assert.ErrorIs(t, err, cart.ErrLineNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, line.ID), cart.ErrLineNotFound)

		_, err = repo.AddQuantity(ctx, 2, p1, 1)
		require.NoError(t, err)
		_, err = repo.AddQuantity(ctx, 2, p2, 1)
		require.NoError(t, err)

		lines, err := repo.ListByCustomer(ctx, 2)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, p1, lines[0].ProductID)

		n, err := repo.ClearByCustomer(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		lines, err = repo.ListByCustomer(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestOrderRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewOrderRepository(db)
	ctx := context.Background()

	pid := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 5000, Stock: 10})

	newOrder := func(customerID uint) *order.Order {
		return &order.Order{
			OrderNumber:     order.GenerateOrderNumber(time.Now()),
			CustomerID:      customerID,
			StoreID:         1,
			Status:          order.StatusPending,
			PaymentMethod:   order.PaymentCash,
			Subtotal:        10000,
			TaxAmount:       800,
			TotalAmount:     10800,
			ShippingAddress: "1 Main St",
			Items:           []order.Item{order.NewItem(pid, 2, 5000)},
		}
	}

	o := newOrder(9)
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)
	require.NotZero(t, o.Items[0].ID)

	t.Run("查询包含明细", func(t *testing.T) {
		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, found.Status)
		assert.Equal(t, order.PaymentCash, found.PaymentMethod)
		require.Len(t, found.Items, 1)
		assert.Equal(t, int64(10000), found.Items[0].TotalPrice)

		byNumber, err := repo.FindByOrderNumber(ctx, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, o.ID, byNumber.ID)

		_, err = repo.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("条件更新状态", func(t *testing.T) {
		ok, err := repo.CompareAndSetStatus(ctx, o.ID, order.StatusPending, order.StatusProcessing)
		require.NoError(t, err)
		assert.True(t, ok)

		// 状态已经变了,再用旧状态更新失败
		ok, err = repo.CompareAndSetStatus(ctx, o.ID, order.StatusPending, order.StatusCancelled)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, found.Status)
	})

	t.Run("分页和过滤", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newOrder(9)))
		require.NoError(t, repo.Create(ctx, newOrder(10)))

		customer := uint(9)
		list, total, err := repo.List(ctx, order.ListParams{CustomerID: &customer, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
		assert.Greater(t, list[0].ID, list[1].ID, "新的在前")

		pending := order.StatusPending
		list, total, err = repo.List(ctx, order.ListParams{Status: &pending})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, o := range list {
			assert.Equal(t, order.StatusPending, o.Status)
		}
	})
}

func TestBankingRepository_Debit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewBankingRepository(db)
	ctx := context.Background()

	t.Run("普通账户不能透支", func(t *testing.T) {
		id := testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 1, Balance: 1000})

		balance, err := repo.Debit(ctx, id, 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)

		_, err = repo.Debit(ctx, id, 1)
		assert.ErrorIs(t, err, banking.ErrInsufficientFunds)
		assert.Equal(t, int64(0), testutil.BalanceOf(t, db, id))
	})

	t.Run("信用账户不超过额度", func(t *testing.T) {
		id := testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 2, Type: "CREDIT", Balance: 0, CreditLimit: 500})

		balance, err := repo.Debit(ctx, id, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(-500), balance)

		_, err = repo.Debit(ctx, id, 1)
		assert.ErrorIs(t, err, banking.ErrInsufficientFunds)
	})

	t.Run("冻结账户不能扣款", func(t *testing.T) {
		id := testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 3, Balance: 1000, Status: "FROZEN"})

		_, err := repo.Debit(ctx, id, 1)
		assert.ErrorIs(t, err, banking.ErrInsufficientFunds)

		_, err = repo.FirstActiveAccount(ctx, 3)
		assert.ErrorIs(t, err, banking.ErrNoActiveAccount)
	})

	t.Run("第一个ACTIVE账户和流水", func(t *testing.T) {
		testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 4, Balance: 1, Status: "CLOSED"})
		first := testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 4, Balance: 100})
		testutil.SeedAccount(t, db, testutil.AccountSeed{CustomerID: 4, Balance: 100})

		acc, err := repo.FirstActiveAccount(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, first, acc.ID)

		orderID := uint(77)
		txn := &banking.Transaction{
			TransactionNo:  "TXN20260101000000000001",
			AccountID:      first,
			Type:           banking.TransactionDebit,
			Amount:         50,
			BalanceAfter:   50,
			Description:    "Payment for Order ORD-1",
			RelatedOrderID: &orderID,
		}
		require.NoError(t, repo.AppendTransaction(ctx, txn))

		list, total, err := repo.ListTransactions(ctx, first, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)
		assert.Equal(t, banking.TransactionDebit, list[0].Type)

		byOrder, err := repo.FindByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, byOrder, 1)

		accounts, err := repo.ListAccounts(ctx, 4)
		require.NoError(t, err)
		assert.Len(t, accounts, 3)
	})
}

func TestTxManager(t *testing.T) {
	db := testutil.NewDB(t)
	inv := mysql.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("返回错误时回滚", func(t *testing.T) {
		tm := mysql.NewTxManager(db)
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 5})

		boom := errors.New("boom")
		err := tm.Transaction(ctx, func(ctx context.Context) error {
			if _, err := inv.ApplyDelta(ctx, id, -2, false); err != nil {
				return err
			}
			return boom
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
		assert.Equal(t, 5, testutil.StockOf(t, db, id))
	})

	t.Run("业务错误原样返回", func(t *testing.T) {
		tm := mysql.NewTxManager(db)
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 1})

		err := tm.Transaction(ctx, func(ctx context.Context) error {
			_, err := inv.ApplyDelta(ctx, id, -2, false)
			return err
		})
		assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
		assert.False(t, apperrors.IsRetryable(err))
	})

	t.Run("嵌套调用复用外层事务", func(t *testing.T) {
		tm := mysql.NewTxManager(db)
		id := testutil.SeedProduct(t, db, testutil.ProductSeed{Price: 100, Stock: 5})

		err := tm.Transaction(ctx, func(ctx context.Context) error {
			if err := tm.Transaction(ctx, func(ctx context.Context) error {
				_, err := inv.ApplyDelta(ctx, id, -1, false)
				return err
			}); err != nil {
				return err
			}
			return inventory.ErrZeroDelta
		})
		assert.ErrorIs(t, err, inventory.ErrZeroDelta)
		assert.Equal(t, 5, testutil.StockOf(t, db, id), "内层的修改随外层一起回滚")
	})

	t.Run("超时返回可重试错误", func(t *testing.T) {
		tm := mysql.NewTxManager(db, mysql.WithTimeout(20*time.Millisecond))

		err := tm.Transaction(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
		assert.True(t, apperrors.IsRetryable(err))
	})
}
