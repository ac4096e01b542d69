package cart_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	cartapp "github.com/xiebiao/electromart/internal/application/cart"
	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/electromart/internal/testutil"
	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
	"github.com/xiebiao/electromart/pkg/money"
)

type fixture struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	add    *cartapp.AddLineUseCase
	update *cartapp.UpdateLineUseCase
	remove *cartapp.RemoveLineUseCase
	clear  *cartapp.ClearCartUseCase
	get    *cartapp.GetCartUseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cartRepo := mysql.NewCartRepository(db)
	productRepo := mysql.NewProductRepository(db)
	products := product.NewCachedReader(productRepo, redis.NewProductCache(client, time.Minute), zap.NewNop())

	return &fixture{
		db:     db,
		mr:     mr,
		add:    cartapp.NewAddLineUseCase(cartRepo, products, zap.NewNop()),
		update: cartapp.NewUpdateLineUseCase(cartRepo, products),
		remove: cartapp.NewRemoveLineUseCase(cartRepo),
		clear:  cartapp.NewClearCartUseCase(cartRepo),
		get:    cartapp.NewGetCartUseCase(cartRepo, productRepo, money.DefaultTaxRate, zap.NewNop()),
	}
}

func customer(id uint) authz.Actor {
	return authz.Actor{ID: id, Role: authz.RoleCustomer}
}

func (f *fixture) addLine(t *testing.T, customerID, productID uint, quantity int) *cartapp.LineDTO {
	t.Helper()
	line, err := f.add.Execute(context.Background(), cartapp.AddLineRequest{
		Actor:      customer(customerID),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	})
	require.NoError(t, err)
	return line
}

func TestAddLine_MergesQuantity(t *testing.T) {
	f := setup(t)
	pid := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 10})

	first := f.addLine(t, 1, pid, 2)
	second := f.addLine(t, 1, pid, 3)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &mysql.CartLineModel{}))

	// 商品快照已回填缓存
	assert.True(t, f.mr.Exists("product:"+itoa(pid)))
}

func TestAddLine_AdvisoryStockCheck(t *testing.T) {
	f := setup(t)
	pid := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 4})

	f.addLine(t, 1, pid, 3)

	// 合并后5件超过库存4件
	_, err := f.add.Execute(context.Background(), cartapp.AddLineRequest{
		Actor: customer(1), CustomerID: 1, ProductID: pid, Quantity: 2,
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)
	appErr := apperrors.GetAppError(err)
	requested, _ := appErr.Field("requested")
	available, _ := appErr.Field("available")
	assert.Equal(t, 5, requested)
	assert.Equal(t, 4, available)

	// 购物车不扣减库存,其他客户仍然可以加购
	f.addLine(t, 2, pid, 4)
	assert.Equal(t, 4, testutil.StockOf(t, f.db, pid))
}

func TestAddLine_Rejections(t *testing.T) {
	f := setup(t)
	pid := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 10})
	inactive := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 10, Inactive: true})

	tests := []struct {
		name    string
		req     cartapp.AddLineRequest
		wantErr error
	}{
		{"数量为0", cartapp.AddLineRequest{Actor: customer(1), CustomerID: 1, ProductID: pid, Quantity: 0}, cart.ErrInvalidQuantity},
		{"数量为负", cartapp.AddLineRequest{Actor: customer(1), CustomerID: 1, ProductID: pid, Quantity: -2}, cart.ErrInvalidQuantity},
		{"商品不存在", cartapp.AddLineRequest{Actor: customer(1), CustomerID: 1, ProductID: 999, Quantity: 1}, product.ErrProductNotFound},
		{"商品已下架", cartapp.AddLineRequest{Actor: customer(1), CustomerID: 1, ProductID: inactive, Quantity: 1}, product.ErrProductNotFound},
		{"操作别人的购物车", cartapp.AddLineRequest{Actor: customer(2), CustomerID: 1, ProductID: pid, Quantity: 1}, apperrors.ErrForbidden},
		{"系统角色", cartapp.AddLineRequest{Actor: authz.Actor{ID: 1, Role: authz.RoleSystem}, CustomerID: 1, ProductID: pid, Quantity: 1}, apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.add.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &mysql.CartLineModel{}))
}

func TestAddLine_EmployeeForCustomer(t *testing.T) {
	f := setup(t)
	pid := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 10})

	line, err := f.add.Execute(context.Background(), cartapp.AddLineRequest{
		Actor:      authz.Actor{ID: 50, Role: authz.RoleEmployee},
		CustomerID: 7,
		ProductID:  pid,
		Quantity:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), line.CustomerID)
}

func TestUpdateLine(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pid := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 6})
	line := f.addLine(t, 1, pid, 2)

	updated, err := f.update.Execute(ctx, cartapp.UpdateLineRequest{Actor: customer(1), LineID: line.ID, Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Quantity)

	_, err = f.update.Execute(ctx, cartapp.UpdateLineRequest{Actor: customer(1), LineID: line.ID, Quantity: 7})
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	_, err = f.update.Execute(ctx, cartapp.UpdateLineRequest{Actor: customer(1), LineID: line.ID, Quantity: 0})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.update.Execute(ctx, cartapp.UpdateLineRequest{Actor: customer(2), LineID: line.ID, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.update.Execute(ctx, cartapp.UpdateLineRequest{Actor: customer(1), LineID: 999, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 6})
	b := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 1000, Stock: 6})
	la := f.addLine(t, 1, a, 1)
	f.addLine(t, 1, b, 1)
	f.addLine(t, 2, a, 1)

	err := f.remove.Execute(ctx, cartapp.RemoveLineRequest{Actor: customer(2), LineID: la.ID})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.remove.Execute(ctx, cartapp.RemoveLineRequest{Actor: customer(1), LineID: la.ID}))
	err = f.remove.Execute(ctx, cartapp.RemoveLineRequest{Actor: customer(1), LineID: la.ID})
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	n, err := f.clear.Execute(ctx, cartapp.ClearCartRequest{Actor: customer(1), CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 清空空购物车不是错误
	n, err = f.clear.Execute(ctx, cartapp.ClearCartRequest{Actor: customer(1), CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// 其他客户的购物车不受影响
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &mysql.CartLineModel{}))
}

func TestGetCart_Totals(t *testing.T) {
	f := setup(t)
	a := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 2500, Stock: 10})
	b := testutil.SeedProduct(t, f.db, testutil.ProductSeed{Price: 5000, Stock: 1})
	f.addLine(t, 1, a, 2)
	f.addLine(t, 1, b, 1)

	// 加购后库存被别人买走,购物车仍然展示但标记缺货
	require.NoError(t, f.db.Model(&mysql.ProductModel{}).Where("id = ?", b).Update("stock_quantity", 0).Error)

	dto, err := f.get.Execute(context.Background(), cartapp.GetCartRequest{Actor: customer(1), CustomerID: 1})
	require.NoError(t, err)

	require.Len(t, dto.Lines, 2)
	assert.Equal(t, int64(5000), dto.Lines[0].LineTotal)
	assert.True(t, dto.Lines[0].InStock)
	assert.False(t, dto.Lines[1].InStock)
	assert.Equal(t, int64(10000), dto.Subtotal)
	assert.Equal(t, int64(800), dto.TaxAmount)
	assert.Equal(t, int64(10800), dto.TotalAmount)
	assert.Equal(t, "108.00", dto.TotalDisplay)
}

func TestGetCart_Empty(t *testing.T) {
	f := setup(t)

	dto, err := f.get.Execute(context.Background(), cartapp.GetCartRequest{Actor: customer(3), CustomerID: 3})
	require.NoError(t, err)
	assert.Empty(t, dto.Lines)
	assert.Equal(t, int64(0), dto.TotalAmount)
	assert.Equal(t, "0.00", dto.TotalDisplay)

	_, err = f.get.Execute(context.Background(), cartapp.GetCartRequest{Actor: customer(4), CustomerID: 3})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
