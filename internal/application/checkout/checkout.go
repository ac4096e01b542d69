// Package checkout 把购物车转换为订单
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/electromart/internal/domain/banking"
	"github.com/xiebiao/electromart/internal/domain/cart"
	"github.com/xiebiao/electromart/internal/domain/event"
	"github.com/xiebiao/electromart/internal/domain/inventory"
	"github.com/xiebiao/electromart/internal/domain/order"
	"github.com/xiebiao/electromart/internal/domain/product"
	"github.com/xiebiao/electromart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
	"github.com/xiebiao/electromart/pkg/logger"
	"github.com/xiebiao/electromart/pkg/metrics"
	"github.com/xiebiao/electromart/pkg/money"
	"github.com/xiebiao/electromart/pkg/tracing"
)

// DefaultStoreID 未指定门店时的默认门店(线上商城)
const DefaultStoreID uint = 1

// RequiredRoles 下单需要的角色
var RequiredRoles = authz.Roles(authz.RoleAdmin, authz.RoleManager, authz.RoleEmployee, authz.RoleCustomer)

// ErrDebitUnavailable 支付方式需要扣款但未配置账户服务
var ErrDebitUnavailable = apperrors.New(apperrors.ErrCodeInvalidParams, "该支付方式暂不可用")

// UseCase 下单用例
// 教学要点:这是整个项目最核心的用例
//
// 核心问题:库存超卖
// 场景:商品库存1个,两个客户同时下单
// 错误实现:
//  1. 查询库存 → 1个
//  2. 判断够不够 → 够
//  3. UPDATE products SET stock_quantity = 0
//     结果:两个请求都通过了步骤2,卖出2个
//
// 正确实现:条件更新
//
//	UPDATE products SET stock_quantity = stock_quantity - 1
//	WHERE id = ? AND stock_quantity - 1 >= 0
//
// 判断和扣减是同一条SQL,影响0行就是库存不足,整个事务回滚
type UseCase struct {
	txManager   *mysql.TxManager
	cartRepo    cart.Repository
	productRepo product.Repository
	orderRepo   order.Repository
	ledger      *inventory.Ledger
	bridge      *banking.Bridge
	products    *product.CachedReader
	publisher   event.Publisher
	taxRate     decimal.Decimal
	logger      *zap.Logger
	now         func() time.Time
}

// Deps 下单用例依赖
// Bridge为nil时需要扣款的支付方式不可用;Publisher为nil时不发布事件
type Deps struct {
	TxManager   *mysql.TxManager
	CartRepo    cart.Repository
	ProductRepo product.Repository
	OrderRepo   order.Repository
	Ledger      *inventory.Ledger
	Bridge      *banking.Bridge
	Products    *product.CachedReader
	Publisher   event.Publisher
	TaxRate     decimal.Decimal
	Logger      *zap.Logger
}

// NewUseCase 创建下单用例
func NewUseCase(d Deps) *UseCase {
	publisher := d.Publisher
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &UseCase{
		txManager:   d.TxManager,
		cartRepo:    d.CartRepo,
		productRepo: d.ProductRepo,
		orderRepo:   d.OrderRepo,
		ledger:      d.Ledger,
		bridge:      d.Bridge,
		products:    d.Products,
		publisher:   publisher,
		taxRate:     d.TaxRate,
		logger:      d.Logger,
		now:         time.Now,
	}
}

// Request 下单请求DTO
type Request struct {
	Actor           authz.Actor
	CustomerID      uint
	PaymentMethod   string
	ShippingAddress string
	BillingAddress  string // 为空时与收货地址相同
	StoreID         uint   // 为空时使用DefaultStoreID
	EmployeeID      *uint  // 员工代客下单时为空则记为操作员工
	ShippingCost    int64  // 分
	DiscountAmount  int64  // 分
	Notes           string
}

// ItemDTO 订单明细
type ItemDTO struct {
	ProductID  uint  `json:"product_id"`
	Quantity   int   `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`
	TotalPrice int64 `json:"total_price"`
}

// Response 下单响应DTO
type Response struct {
	OrderID        uint      `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"payment_method"`
	Subtotal       int64     `json:"subtotal"`
	TaxAmount      int64     `json:"tax_amount"`
	ShippingCost   int64     `json:"shipping_cost"`
	DiscountAmount int64     `json:"discount_amount"`
	TotalAmount    int64     `json:"total_amount"`
	TotalDisplay   string    `json:"total_display"`
	TransactionNo  string    `json:"transaction_no,omitempty"`
	Items          []ItemDTO `json:"items"`
	CreatedAt      string    `json:"created_at"`
}

// result 事务内产生、提交后才使用的数据
type result struct {
	order   *order.Order
	changes []*inventory.StockChange
	debit   *banking.Transaction
}

// Execute 执行下单
// 整个流程在一个事务里:
//  1. 读取购物车,为空返回EmptyCart
//  2. 重新读取商品价格和库存(不读缓存)
//  3. 计算金额(税额一次性四舍五入)
//  4. 插入PENDING订单和明细
//  5. 逐项条件扣减库存(权威的库存校验)
//  6. 写OUT台账,原因"sale"
//  7. 需要时从客户账户扣款
//  8. PENDING → PROCESSING
//  9. 清空购物车
//  10. 提交
//
// 任何一步失败整个事务回滚:没有订单、库存不变、购物车保留
func (uc *UseCase) Execute(ctx context.Context, req Request) (_ *Response, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "checkout.Execute")
	metrics.IncGauge(metrics.CheckoutsInProgress)
	defer func() {
		metrics.DecGauge(metrics.CheckoutsInProgress)
		tracing.EndSpan(span, err)
	}()

	log := logger.WithContext(ctx, uc.logger).With(zap.Uint("customer_id", req.CustomerID))

	method, err := uc.validate(&req)
	if err != nil {
		metrics.RecordCheckout(resultLabel(err), 0, time.Since(start))
		return nil, err
	}

	var res result
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 重试时从头开始
		res = result{}
		return uc.place(txCtx, req, method, &res)
	})
	if err != nil {
		label := resultLabel(err)
		if label == "payment_declined" {
			metrics.RecordDebit("declined")
		}
		metrics.RecordCheckout(label, 0, time.Since(start))
		log.Info("下单失败", zap.Error(err))
		return nil, err
	}

	uc.afterCommit(ctx, log, res)
	metrics.RecordCheckout("success", res.order.TotalAmount, time.Since(start))

	log.Info("下单成功",
		zap.Uint("order_id", res.order.ID),
		zap.String("order_number", res.order.OrderNumber),
		zap.Int64("total_amount", res.order.TotalAmount),
	)
	return toResponse(res), nil
}

// validate 事务外的参数校验
func (uc *UseCase) validate(req *Request) (order.PaymentMethod, error) {
	if err := authz.Require(req.Actor.Role, RequiredRoles); err != nil {
		return "", err
	}
	if err := authz.RequireSelfOrStaff(req.Actor, req.CustomerID); err != nil {
		return "", err
	}

	method, ok := order.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return "", order.ErrInvalidPaymentMethod.WithField("payment_method", req.PaymentMethod)
	}
	if method.RequiresLedgerDebit() && uc.bridge == nil {
		return "", ErrDebitUnavailable.WithField("payment_method", string(method))
	}

	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	if req.ShippingAddress == "" {
		return "", order.ErrShippingAddressRequired
	}
	req.BillingAddress = strings.TrimSpace(req.BillingAddress)
	if req.BillingAddress == "" {
		req.BillingAddress = req.ShippingAddress
	}
	if req.ShippingCost < 0 {
		return "", order.ErrInvalidAmount.WithField("shipping_cost", req.ShippingCost)
	}
	if req.DiscountAmount < 0 {
		return "", order.ErrInvalidAmount.WithField("discount_amount", req.DiscountAmount)
	}
	if req.StoreID == 0 {
		req.StoreID = DefaultStoreID
	}
	if req.EmployeeID == nil && req.Actor.Role.IsStaff() && req.Actor.ID != req.CustomerID {
		employeeID := req.Actor.ID
		req.EmployeeID = &employeeID
	}
	return method, nil
}

// place 事务内的下单步骤,ctx携带事务
func (uc *UseCase) place(ctx context.Context, req Request, method order.PaymentMethod, res *result) error {
	// 1. 读取购物车
	lines, err := uc.cartRepo.ListByCustomer(ctx, req.CustomerID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return cart.ErrEmptyCart
	}

	// 2. 重新读取商品(权威价格),快照库存不足直接失败
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := uc.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	items := make([]order.Item, len(lines))
	var subtotal int64
	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok || !p.IsActive {
			return product.ErrProductNotFound.WithField("product_id", l.ProductID)
		}
		if !p.HasStock(l.Quantity) {
			return inventory.InsufficientStock(p.ID)
		}
		items[i] = order.NewItem(p.ID, l.Quantity, p.Price)
		subtotal += items[i].TotalPrice
	}

	// 3. 计算金额
	totals := money.Compute(subtotal, req.ShippingCost, req.DiscountAmount, uc.taxRate)
	if totals.TotalAmount < 0 {
		return order.ErrInvalidAmount.WithField("discount_amount", req.DiscountAmount)
	}

	// 4. 插入PENDING订单(含明细)
	o := &order.Order{
		OrderNumber:     order.GenerateOrderNumber(uc.now()),
		CustomerID:      req.CustomerID,
		StoreID:         req.StoreID,
		EmployeeID:      req.EmployeeID,
		Status:          order.StatusPending,
		PaymentMethod:   method,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		ShippingCost:    totals.ShippingCost,
		DiscountAmount:  totals.DiscountAmount,
		TotalAmount:     totals.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           items,
	}
	if err := uc.orderRepo.Create(ctx, o); err != nil {
		return err
	}

	// 5-6. 条件扣减库存并写OUT台账
	orderID := o.ID
	for _, item := range o.Items {
		change, err := uc.ledger.AdjustStock(ctx, inventory.AdjustCommand{
			ProductID:   item.ProductID,
			Delta:       -item.Quantity,
			Type:        inventory.TypeOut,
			Reason:      inventory.ReasonSale,
			Actor:       req.Actor,
			ReferenceID: &orderID,
		})
		if err != nil {
			return err
		}
		res.changes = append(res.changes, change)
	}

	// 7. 从客户账户扣款(金额为0时无需扣款)
	if method.RequiresLedgerDebit() && o.TotalAmount > 0 {
		txn, err := uc.bridge.RecordDebit(ctx, o.CustomerID, o.TotalAmount, banking.OrderRef{ID: o.ID, Number: o.OrderNumber})
		if err != nil {
			return err
		}
		res.debit = txn
	}

	// 8. PENDING → PROCESSING
	from := o.Status
	if err := o.TransitionTo(order.StatusProcessing); err != nil {
		return err
	}
	ok, err := uc.orderRepo.CompareAndSetStatus(ctx, o.ID, from, o.Status)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrConcurrencyConflict.WithField("order_id", o.ID)
	}

	// 9. 清空购物车
	if _, err := uc.cartRepo.ClearByCustomer(ctx, req.CustomerID); err != nil {
		return err
	}

	res.order = o
	return nil
}

// afterCommit 提交后的缓存、事件、指标,失败只记日志
func (uc *UseCase) afterCommit(ctx context.Context, log *zap.Logger, res result) {
	o := res.order
	if uc.products != nil {
		uc.products.Invalidate(ctx, o.ProductIDs()...)
	}

	if res.debit != nil {
		metrics.RecordDebit("success")
	}
	metrics.RecordTransition(order.StatusPending.String(), order.StatusProcessing.String())

	uc.publish(ctx, log, event.New(event.TypeOrderPlaced, event.OrderPlaced{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: string(o.PaymentMethod),
	}))

	for _, c := range res.changes {
		metrics.RecordStockAdjustment(string(inventory.TypeOut), c.LowStock)
		if c.LowStock {
			log.Warn("商品库存偏低", zap.Uint("product_id", c.ProductID), zap.Int("stock_quantity", c.New))
			uc.publish(ctx, log, event.New(event.TypeInventoryLowStock, event.LowStock{
				ProductID:     c.ProductID,
				StockQuantity: c.New,
			}))
		}
	}
}

func (uc *UseCase) publish(ctx context.Context, log *zap.Logger, e event.Event) {
	if err := uc.publisher.Publish(ctx, e); err != nil {
		log.Warn("事件发布失败", zap.String("type", e.Type), zap.Error(err))
	}
}

// resultLabel 指标标签
func resultLabel(err error) string {
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, banking.ErrInsufficientFunds), errors.Is(err, banking.ErrNoActiveAccount):
		return "payment_declined"
	case apperrors.IsRetryable(err):
		return "retryable"
	default:
		return "rejected"
	}
}

func toResponse(res result) *Response {
	o := res.order
	items := make([]ItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemDTO{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}
	resp := &Response{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status.String(),
		PaymentMethod:  string(o.PaymentMethod),
		Subtotal:       o.Subtotal,
		TaxAmount:      o.TaxAmount,
		ShippingCost:   o.ShippingCost,
		DiscountAmount: o.DiscountAmount,
		TotalAmount:    o.TotalAmount,
		TotalDisplay:   money.Format(o.TotalAmount),
		Items:          items,
		CreatedAt:      o.CreatedAt.Format(time.DateTime),
	}
	if res.debit != nil {
		resp.TransactionNo = res.debit.TransactionNo
	}
	return resp
}
